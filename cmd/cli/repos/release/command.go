package release

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/alias"
	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/prompt"
	"github.com/temirov/hubkit/internal/releases"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/ui"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	commandUseName              = "release"
	commandUsageTemplate        = commandUseName + " <version>"
	commandExampleTemplate      = "hubkit release 1.2.3\nhubkit release 2.0.0-rc.1 --draft --message \"Second major\""
	commandShortDescription     = "Tag, push and publish a release of the current branch"
	commandLongDescription      = "release validates the semantic version, checks that the current branch may carry it (version branch 1.2 or 1.x, or a branch whose development alias is 1.2-dev), makes sure the branch matches its remote, creates and pushes the annotated tag v<version>, then publishes a GitHub release."
	remoteFlagName              = "remote"
	remoteFlagUsage             = "Remote to push the tag to"
	messageFlagName             = "message"
	messageFlagUsage            = "Override the tag message and release notes"
	draftFlagName               = "draft"
	draftFlagUsage              = "Publish the GitHub release as a draft"
	prereleaseFlagName          = "prerelease"
	prereleaseFlagUsage         = "Mark the GitHub release as a prerelease"
	publishFlagName             = "publish"
	publishFlagUsage            = "Create a GitHub release after pushing the tag"
	dryRunFlagName              = "dry-run"
	dryRunFlagUsage             = "Validate the release without tagging or publishing"
	remoteLookupFailureTemplate = "failed to identify the GitHub repository behind %s: %w"
	releasedLabel               = "RELEASED"
	publishedLabel              = "PUBLISHED"
	dryRunLabel                 = "DRY RUN"
	releasedDetailTemplate      = "%s from %s"
	dryRunDetailTemplate        = "%s can be released from %s"
)

// CommandBuilder assembles the release command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	ManifestReader               alias.ManifestReader
	Prompter                     prompt.Prompter
	Publisher                    releases.Publisher
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	AliasConfigurationProvider   func() alias.CommandConfiguration
	GitHubOptionsProvider        func() dependencies.GitHubAPIOptions
}

// Build constructs the release command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUsageTemplate,
		Short:   commandShortDescription,
		Long:    commandLongDescription,
		Example: commandExampleTemplate,
		Args:    cobra.ExactArgs(1),
		RunE:    builder.run,
	}

	command.Flags().String(remoteFlagName, "", remoteFlagUsage)
	command.Flags().String(messageFlagName, "", messageFlagUsage)
	command.Flags().Bool(draftFlagName, false, draftFlagUsage)
	command.Flags().Bool(prereleaseFlagName, false, prereleaseFlagUsage)
	command.Flags().Bool(publishFlagName, true, publishFlagUsage)
	command.Flags().Bool(dryRunFlagName, false, dryRunFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)
	dryRun, _ := command.Flags().GetBool(dryRunFlagName)

	logger, gitExecutor, repositoryManager, collaboratorError := builder.resolveCollaborators()
	if collaboratorError != nil {
		return collaboratorError
	}

	executionContext := command.Context()
	repositoryPath := utils.NewCommandContextAccessor().RepositoryPath(executionContext)

	branchName, branchError := repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return branchError
	}

	branchService, branchServiceError := branches.NewService(branches.ServiceDependencies{GitExecutor: gitExecutor, RepositoryManager: repositoryManager})
	if branchServiceError != nil {
		return branchServiceError
	}

	aliasConfiguration := alias.DefaultCommandConfiguration()
	if builder.AliasConfigurationProvider != nil {
		aliasConfiguration = builder.AliasConfigurationProvider().Sanitize()
	}
	aliasConfiguration.PrimaryBranch = branchName

	prompter := builder.Prompter
	if prompter == nil && prompt.IsInteractive(os.Stdin) {
		prompter = prompt.NewTerminalPrompter(os.Stdin, os.Stderr)
	}
	aliasResolver, aliasResolverError := alias.NewRepositoryResolver(executionContext, alias.FactoryDependencies{
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
		ManifestReader:    builder.ManifestReader,
		Prompter:          prompter,
		Logger:            logger,
	}, aliasConfiguration, repositoryPath)
	if aliasResolverError != nil {
		return aliasResolverError
	}

	serviceDependencies := releases.ServiceDependencies{
		GitExecutor:        gitExecutor,
		RepositoryManager:  repositoryManager,
		BranchSynchronizer: branchService,
		AliasResolver:      aliasResolver,
	}
	releaseOptions := releases.Options{
		RepositoryPath: repositoryPath,
		Version:        strings.TrimSpace(arguments[0]),
		Message:        configuration.Message,
		RemoteName:     configuration.RemoteName,
		Branch:         branchName,
		Draft:          configuration.Draft,
		Prerelease:     configuration.Prerelease,
		DryRun:         dryRun,
	}

	if configuration.Publish && !dryRun {
		remoteRepository, remoteError := builder.resolveRemoteRepository(command, repositoryManager, repositoryPath, configuration.RemoteName)
		if remoteError != nil {
			return remoteError
		}
		publisher, publisherError := builder.resolvePublisher(command, gitExecutor)
		if publisherError != nil {
			return publisherError
		}
		serviceDependencies.Publisher = publisher
		releaseOptions.Owner = remoteRepository.Owner
		releaseOptions.Repository = remoteRepository.Repository
	}

	if !dryRun {
		if fetchError := branchService.Fetch(executionContext, repositoryPath, configuration.RemoteName); fetchError != nil {
			return fetchError
		}
	}

	service, serviceError := releases.NewService(serviceDependencies)
	if serviceError != nil {
		return serviceError
	}

	result, releaseError := service.Release(executionContext, releaseOptions)
	if releaseError != nil {
		return releaseError
	}

	styles := ui.NewStyles(command.OutOrStdout())
	if dryRun {
		styles.Notice(dryRunLabel, fmt.Sprintf(dryRunDetailTemplate, result.TagName, result.Branch))
		return nil
	}
	styles.Success(releasedLabel, fmt.Sprintf(releasedDetailTemplate, result.TagName, result.Branch))
	if result.Published {
		styles.Success(publishedLabel, result.ReleaseURL)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}

	flags := command.Flags()
	if flags.Changed(remoteFlagName) {
		if remoteName, _ := flags.GetString(remoteFlagName); len(strings.TrimSpace(remoteName)) > 0 {
			configuration.RemoteName = strings.TrimSpace(remoteName)
		}
	}
	if flags.Changed(messageFlagName) {
		message, _ := flags.GetString(messageFlagName)
		configuration.Message = strings.TrimSpace(message)
	}
	if flags.Changed(draftFlagName) {
		configuration.Draft, _ = flags.GetBool(draftFlagName)
	}
	if flags.Changed(prereleaseFlagName) {
		configuration.Prerelease, _ = flags.GetBool(prereleaseFlagName)
	}
	if flags.Changed(publishFlagName) {
		configuration.Publish, _ = flags.GetBool(publishFlagName)
	}
	return configuration
}

func (builder *CommandBuilder) resolveRemoteRepository(command *cobra.Command, repositoryManager shared.GitRepositoryManager, repositoryPath string, remoteName string) (gitrepo.RemoteURL, error) {
	remoteURL, remoteError := repositoryManager.GetRemoteURL(command.Context(), repositoryPath, remoteName)
	if remoteError != nil {
		return gitrepo.RemoteURL{}, fmt.Errorf(remoteLookupFailureTemplate, remoteName, remoteError)
	}
	remoteRepository, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return gitrepo.RemoteURL{}, fmt.Errorf(remoteLookupFailureTemplate, remoteName, parseError)
	}
	return remoteRepository, nil
}

func (builder *CommandBuilder) resolvePublisher(command *cobra.Command, gitExecutor shared.GitExecutor) (releases.Publisher, error) {
	if builder.Publisher != nil {
		return builder.Publisher, nil
	}
	options := dependencies.GitHubAPIOptions{}
	if builder.GitHubOptionsProvider != nil {
		options = builder.GitHubOptionsProvider()
	}
	client, clientError := dependencies.ResolveGitHubAPIClient(command.Context(), options, gitExecutor)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}
