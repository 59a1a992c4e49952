package repos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/ui"
)

const (
	createUseConstant              = "create"
	createShortDescription         = "Open a pull request from a branch"
	createLongDescription          = "create opens a pull request from the head branch (the current branch by default) into the base branch (the configured base or the GitHub default branch). The current branch is synchronized with its remote first; --push publishes it when it is ahead or missing on the remote."
	createExampleConstant          = "hubkit pr create --title \"Add widget\" --base 1.x --push"
	titleFlagNameConstant          = "title"
	titleFlagDescription           = "Pull request title"
	bodyFlagNameConstant           = "body"
	bodyFlagDescription            = "Pull request description"
	createBaseFlagDescription      = "Branch to merge into (defaults to the configured base, then the GitHub default branch)"
	headFlagNameConstant           = "head"
	headFlagDescription            = "Branch to merge from (defaults to the current branch)"
	draftFlagNameConstant          = "draft"
	draftFlagDescription           = "Open the pull request as a draft"
	pushFlagNameConstant           = "push"
	pushFlagDescription            = "Push the head branch when the remote lacks it or is behind"
	titleRequiredMessageConstant   = "pull request title must be provided with --title"
	headUnpublishedMessageConstant = "head branch is not on the remote"
	headUnpublishedTemplate        = "%w: push %q to %s or pass --push"
	sameBranchMessageConstant      = "head and base branches are the same"
	sameBranchTemplate             = "%w: %q"
	defaultBranchFailureTemplate   = "failed to determine the default branch of %s: %w"
	openedLabelConstant            = "PR OPENED"
	pushedLabelConstant            = "PUSHED"
	openedDetailTemplate           = "#%d %s -> %s %s"
	pushedDetailTemplate           = "%s -> %s/%s"
)

var (
	// ErrTitleRequired indicates pr create was invoked without a title.
	ErrTitleRequired = errors.New(titleRequiredMessageConstant)
	// ErrHeadBranchUnpublished indicates the head branch is missing on the remote and pushing was not requested.
	ErrHeadBranchUnpublished = errors.New(headUnpublishedMessageConstant)
	// ErrSameBranch indicates the head and base branches are identical.
	ErrSameBranch = errors.New(sameBranchMessageConstant)
)

func (builder *CommandGroupBuilder) buildCreateCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     createUseConstant,
		Short:   createShortDescription,
		Long:    createLongDescription,
		Example: createExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.runCreate,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescription)
	command.Flags().String(titleFlagNameConstant, "", titleFlagDescription)
	command.Flags().String(bodyFlagNameConstant, "", bodyFlagDescription)
	command.Flags().String(baseFlagNameConstant, "", createBaseFlagDescription)
	command.Flags().String(headFlagNameConstant, "", headFlagDescription)
	command.Flags().Bool(draftFlagNameConstant, false, draftFlagDescription)
	command.Flags().Bool(pushFlagNameConstant, false, pushFlagDescription)

	return command, nil
}

func (builder *CommandGroupBuilder) runCreate(command *cobra.Command, _ []string) error {
	title, _ := command.Flags().GetString(titleFlagNameConstant)
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return ErrTitleRequired
	}
	body, _ := command.Flags().GetString(bodyFlagNameConstant)
	draft, _ := command.Flags().GetBool(draftFlagNameConstant)
	push, _ := command.Flags().GetBool(pushFlagNameConstant)

	environment, environmentError := builder.prepare(command)
	if environmentError != nil {
		return environmentError
	}
	executionContext := command.Context()
	remoteName := environment.configuration.RemoteName

	currentBranch, currentBranchError := environment.repositoryManager.GetCurrentBranch(executionContext, environment.repositoryPath)
	if currentBranchError != nil {
		return currentBranchError
	}
	headBranch, _ := command.Flags().GetString(headFlagNameConstant)
	headBranch = strings.TrimSpace(headBranch)
	if len(headBranch) == 0 {
		headBranch = currentBranch
	}

	baseBranch, baseError := builder.resolveBaseBranch(command, environment)
	if baseError != nil {
		return baseError
	}
	if baseBranch == headBranch {
		return fmt.Errorf(sameBranchTemplate, ErrSameBranch, headBranch)
	}

	branchService, serviceError := branches.NewService(branches.ServiceDependencies{GitExecutor: environment.gitExecutor, RepositoryManager: environment.repositoryManager})
	if serviceError != nil {
		return serviceError
	}
	if fetchError := branchService.Fetch(executionContext, environment.repositoryPath, remoteName); fetchError != nil {
		return fetchError
	}

	styles := ui.NewStyles(command.OutOrStdout())
	published, lookupError := branchService.RemoteBranchExists(executionContext, environment.repositoryPath, remoteName, headBranch)
	if lookupError != nil {
		return lookupError
	}
	switch {
	case !published && !push:
		return fmt.Errorf(headUnpublishedTemplate, ErrHeadBranchUnpublished, headBranch, remoteName)
	case !published:
		if pushError := branchService.Push(executionContext, environment.repositoryPath, remoteName, headBranch, headBranch); pushError != nil {
			return pushError
		}
		styles.Success(pushedLabelConstant, fmt.Sprintf(pushedDetailTemplate, headBranch, remoteName, headBranch))
	case headBranch == currentBranch:
		syncResult, syncError := branchService.EnsureBranchInSync(executionContext, branches.SyncOptions{
			RepositoryPath: environment.repositoryPath,
			RemoteName:     remoteName,
			LocalBranch:    headBranch,
			AllowPush:      push,
			RequireClean:   true,
		})
		if syncError != nil {
			return syncError
		}
		if syncResult.Action == branches.SyncActionPush {
			styles.Success(pushedLabelConstant, fmt.Sprintf(pushedDetailTemplate, headBranch, remoteName, headBranch))
		}
	}

	api, apiError := builder.resolveAPI(executionContext, environment.gitExecutor)
	if apiError != nil {
		return apiError
	}
	pullRequest, createError := api.CreatePullRequest(executionContext, githubapi.PullRequestRequest{
		Owner:      environment.remoteRepository.Owner,
		Repository: environment.remoteRepository.Repository,
		Title:      title,
		Head:       headBranch,
		Base:       baseBranch,
		Body:       body,
		Draft:      draft,
	})
	if createError != nil {
		return createError
	}

	styles.Success(openedLabelConstant, fmt.Sprintf(openedDetailTemplate, pullRequest.Number, headBranch, baseBranch, styles.Detail(pullRequest.HTMLURL)))
	return nil
}

func (builder *CommandGroupBuilder) resolveBaseBranch(command *cobra.Command, environment pullRequestEnvironment) (string, error) {
	if baseBranch, _ := command.Flags().GetString(baseFlagNameConstant); len(strings.TrimSpace(baseBranch)) > 0 {
		return strings.TrimSpace(baseBranch), nil
	}
	if len(environment.configuration.BaseBranch) > 0 {
		return environment.configuration.BaseBranch, nil
	}

	githubResolver, resolverError := dependencies.ResolveGitHubResolver(builder.GitHubResolver, environment.gitExecutor)
	if resolverError != nil {
		return "", resolverError
	}
	ownerRepository := environment.remoteRepository.OwnerRepository()
	metadata, metadataError := githubResolver.ResolveRepoMetadata(command.Context(), ownerRepository)
	if metadataError != nil {
		return "", fmt.Errorf(defaultBranchFailureTemplate, ownerRepository, metadataError)
	}
	return metadata.DefaultBranch, nil
}
