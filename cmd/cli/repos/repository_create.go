package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/ui"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	repositoryCreateUseConstant      = "repo-create <name|owner/name>"
	repositoryCreateShortDescription = "Create a GitHub repository"
	repositoryCreateLongDescription  = "repo-create creates a repository for the authenticated user, or for the organization named before the slash. With --remote the new repository is added as a remote of the current repository."
	repositoryCreateExampleConstant  = "hubkit repo-create acme/widgets --description \"Widget toolkit\" --remote origin"
	privateFlagNameConstant          = "private"
	privateFlagDescription           = "Create a private repository"
	descriptionFlagNameConstant      = "description"
	descriptionFlagDescription       = "Repository description"
	addRemoteFlagDescription         = "Add the created repository as this remote of the current repository"
	protocolFlagNameConstant         = "protocol"
	protocolFlagDescription          = "Remote URL protocol: ssh or https"
	unsupportedProtocolTemplate      = "unsupported protocol %q: expected ssh or https"
	addRemoteFailureTemplate         = "repository %s was created but remote %s could not be added: %w"
	gitRemoteSubcommandConstant      = "remote"
	gitRemoteAddSubcommandConstant   = "add"
	createdLabelConstant             = "CREATED"
	remoteAddedLabelConstant         = "REMOTE ADDED"
	createdDetailTemplate            = "%s %s"
	remoteAddedDetailTemplate        = "%s -> %s"
	visibilityPrivateConstant        = "(private)"
	visibilityPublicConstant         = "(public)"
)

// RepositoryCreator creates repositories through the GitHub API.
type RepositoryCreator interface {
	CreateRepository(executionContext context.Context, request githubapi.RepositoryRequest) (githubapi.Repository, error)
}

// RepositoryCreateCommandBuilder assembles the repo-create command.
type RepositoryCreateCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	Creator                      RepositoryCreator
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() RepositoryConfiguration
	GitHubOptionsProvider        GitHubOptionsProvider
}

// Build constructs the repo-create command.
func (builder *RepositoryCreateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     repositoryCreateUseConstant,
		Short:   repositoryCreateShortDescription,
		Long:    repositoryCreateLongDescription,
		Example: repositoryCreateExampleConstant,
		Args:    cobra.ExactArgs(1),
		RunE:    builder.run,
	}

	command.Flags().Bool(privateFlagNameConstant, false, privateFlagDescription)
	command.Flags().String(descriptionFlagNameConstant, "", descriptionFlagDescription)
	command.Flags().String(remoteFlagNameConstant, "", addRemoteFlagDescription)
	command.Flags().String(protocolFlagNameConstant, "", protocolFlagDescription)

	return command, nil
}

func (builder *RepositoryCreateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	owner, name, nameError := splitRepositoryName(arguments[0])
	if nameError != nil {
		return nameError
	}

	configuration := DefaultToolsConfiguration().Repository
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}
	flags := command.Flags()
	if flags.Changed(privateFlagNameConstant) {
		configuration.Private, _ = flags.GetBool(privateFlagNameConstant)
	}
	if flags.Changed(remoteFlagNameConstant) {
		remoteName, _ := flags.GetString(remoteFlagNameConstant)
		configuration.RemoteName = strings.TrimSpace(remoteName)
	}
	if flags.Changed(protocolFlagNameConstant) {
		protocol, _ := flags.GetString(protocolFlagNameConstant)
		configuration.Protocol = strings.ToLower(strings.TrimSpace(protocol))
	}
	description, _ := flags.GetString(descriptionFlagNameConstant)

	protocol := gitrepo.RemoteProtocol(configuration.Protocol)
	if protocol != gitrepo.RemoteProtocolSSH && protocol != gitrepo.RemoteProtocolHTTPS {
		return fmt.Errorf(unsupportedProtocolTemplate, configuration.Protocol)
	}

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveHumanReadable(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return executorError
	}

	executionContext := command.Context()
	creator := builder.Creator
	if creator == nil {
		client, clientError := dependencies.ResolveGitHubAPIClient(executionContext, resolveGitHubOptions(builder.GitHubOptionsProvider), gitExecutor)
		if clientError != nil {
			return clientError
		}
		creator = client
	}

	repository, createError := creator.CreateRepository(executionContext, githubapi.RepositoryRequest{
		Owner:       owner,
		Name:        name,
		Description: strings.TrimSpace(description),
		Private:     configuration.Private,
	})
	if createError != nil {
		return createError
	}

	styles := ui.NewStyles(command.OutOrStdout())
	visibility := visibilityPublicConstant
	if repository.Private {
		visibility = visibilityPrivateConstant
	}
	styles.Success(createdLabelConstant, fmt.Sprintf(createdDetailTemplate, repository.FullName, styles.Detail(visibility)))

	if len(configuration.RemoteName) == 0 {
		return nil
	}

	remoteURL := repository.SSHURL
	if protocol == gitrepo.RemoteProtocolHTTPS {
		remoteURL = repository.CloneURL
	}
	_, remoteError := gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, configuration.RemoteName, remoteURL},
		WorkingDirectory: utils.NewCommandContextAccessor().RepositoryPath(executionContext),
	})
	if remoteError != nil {
		return fmt.Errorf(addRemoteFailureTemplate, repository.FullName, configuration.RemoteName, remoteError)
	}
	styles.Success(remoteAddedLabelConstant, fmt.Sprintf(remoteAddedDetailTemplate, configuration.RemoteName, remoteURL))
	return nil
}
