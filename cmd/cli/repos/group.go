package repos

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/githubcli"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	groupUseConstant      = "pr"
	groupShortDescription = "Work with pull requests of the current repository"
	groupLongDescription  = "pr groups subcommands that list, open and merge pull requests of the GitHub repository behind the configured remote."
)

// PullRequestLister lists pull requests through the GitHub CLI.
type PullRequestLister interface {
	ListPullRequests(executionContext context.Context, repository string, options githubcli.PullRequestListOptions) ([]githubcli.PullRequest, error)
}

// PullRequestAPI opens and merges pull requests through the GitHub API.
type PullRequestAPI interface {
	CreatePullRequest(executionContext context.Context, request githubapi.PullRequestRequest) (githubapi.PullRequest, error)
	MergePullRequest(executionContext context.Context, request githubapi.MergeRequest) (githubapi.MergeResult, error)
}

// CommandGroupBuilder assembles the pr command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	GitHubResolver               shared.GitHubMetadataResolver
	Lister                       PullRequestLister
	API                          PullRequestAPI
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() PullRequestConfiguration
	GitHubOptionsProvider        GitHubOptionsProvider
}

// Build constructs the pr command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
		RunE: func(command *cobra.Command, _ []string) error {
			return displayCommandHelp(command)
		},
	}

	listCommand, listError := builder.buildListCommand()
	if listError == nil {
		command.AddCommand(listCommand)
	}

	createCommand, createError := builder.buildCreateCommand()
	if createError == nil {
		command.AddCommand(createCommand)
	}

	mergeCommand, mergeError := builder.buildMergeCommand()
	if mergeError == nil {
		command.AddCommand(mergeCommand)
	}

	return command, nil
}

type pullRequestEnvironment struct {
	configuration     PullRequestConfiguration
	logger            *zap.Logger
	gitExecutor       shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	repositoryPath    string
	remoteRepository  gitrepo.RemoteURL
}

func (builder *CommandGroupBuilder) prepare(command *cobra.Command) (pullRequestEnvironment, error) {
	configuration := DefaultToolsConfiguration().PullRequests
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}
	if remoteName, _ := command.Flags().GetString(remoteFlagNameConstant); command.Flags().Changed(remoteFlagNameConstant) && len(remoteName) > 0 {
		configuration.RemoteName = remoteName
	}

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveHumanReadable(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return pullRequestEnvironment{}, executorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return pullRequestEnvironment{}, managerError
	}

	repositoryPath := utils.NewCommandContextAccessor().RepositoryPath(command.Context())
	remoteRepository, remoteError := resolveRemoteRepository(command.Context(), repositoryManager, repositoryPath, configuration.RemoteName)
	if remoteError != nil {
		return pullRequestEnvironment{}, remoteError
	}

	return pullRequestEnvironment{
		configuration:     configuration,
		logger:            logger,
		gitExecutor:       gitExecutor,
		repositoryManager: repositoryManager,
		repositoryPath:    repositoryPath,
		remoteRepository:  remoteRepository,
	}, nil
}

func (builder *CommandGroupBuilder) resolveAPI(executionContext context.Context, gitExecutor shared.GitExecutor) (PullRequestAPI, error) {
	if builder.API != nil {
		return builder.API, nil
	}
	client, clientError := dependencies.ResolveGitHubAPIClient(executionContext, resolveGitHubOptions(builder.GitHubOptionsProvider), gitExecutor)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}
