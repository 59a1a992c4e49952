package repos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/ui"
)

const (
	mergeUseConstant               = "merge <number>"
	mergeShortDescription          = "Merge a pull request"
	mergeLongDescription           = "merge merges the pull request through the GitHub API. With --delete-branch the head branch is removed from GitHub and, unless it is checked out, from the local repository."
	mergeExampleConstant           = "hubkit pr merge 42 --method squash --delete-branch"
	methodFlagNameConstant         = "method"
	methodFlagDescription          = "Merge method: merge, squash or rebase"
	deleteBranchFlagNameConstant   = "delete-branch"
	deleteBranchFlagDescription    = "Delete the head branch after merging"
	invalidNumberTemplateConstant  = "invalid pull request number %q"
	mergedLabelConstant            = "MERGED"
	deletedLabelConstant           = "DELETED"
	keptLabelConstant              = "KEPT"
	mergedDetailTemplateConstant   = "#%d %s"
	remoteDeletedTemplateConstant  = "%s/%s"
	keptCheckedOutTemplateConstant = "%s is checked out"
	numberPrefixConstant           = "#"
)

func (builder *CommandGroupBuilder) buildMergeCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     mergeUseConstant,
		Short:   mergeShortDescription,
		Long:    mergeLongDescription,
		Example: mergeExampleConstant,
		Args:    cobra.ExactArgs(1),
		RunE:    builder.runMerge,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescription)
	command.Flags().String(methodFlagNameConstant, "", methodFlagDescription)
	command.Flags().Bool(deleteBranchFlagNameConstant, false, deleteBranchFlagDescription)

	return command, nil
}

func (builder *CommandGroupBuilder) runMerge(command *cobra.Command, arguments []string) error {
	trimmedNumber := strings.TrimPrefix(strings.TrimSpace(arguments[0]), numberPrefixConstant)
	number, numberError := strconv.Atoi(trimmedNumber)
	if numberError != nil || number <= 0 {
		return fmt.Errorf(invalidNumberTemplateConstant, arguments[0])
	}

	environment, environmentError := builder.prepare(command)
	if environmentError != nil {
		return environmentError
	}
	executionContext := command.Context()

	mergeMethod := environment.configuration.MergeMethod
	if method, _ := command.Flags().GetString(methodFlagNameConstant); len(strings.TrimSpace(method)) > 0 {
		mergeMethod = strings.ToLower(strings.TrimSpace(method))
	}
	deleteBranch := environment.configuration.DeleteBranch
	if command.Flags().Changed(deleteBranchFlagNameConstant) {
		deleteBranch, _ = command.Flags().GetBool(deleteBranchFlagNameConstant)
	}

	api, apiError := builder.resolveAPI(executionContext, environment.gitExecutor)
	if apiError != nil {
		return apiError
	}
	mergeResult, mergeError := api.MergePullRequest(executionContext, githubapi.MergeRequest{
		Owner:        environment.remoteRepository.Owner,
		Repository:   environment.remoteRepository.Repository,
		Number:       number,
		Method:       githubapi.MergeMethod(mergeMethod),
		DeleteBranch: deleteBranch,
	})
	if mergeError != nil {
		return mergeError
	}

	styles := ui.NewStyles(command.OutOrStdout())
	styles.Success(mergedLabelConstant, fmt.Sprintf(mergedDetailTemplateConstant, number, styles.Detail(mergeResult.SHA)))
	if !mergeResult.BranchDeleted {
		return nil
	}
	styles.Success(deletedLabelConstant, fmt.Sprintf(remoteDeletedTemplateConstant, environment.configuration.RemoteName, mergeResult.HeadBranch))

	return builder.deleteLocalBranch(command, environment, styles, mergeResult.HeadBranch)
}

func (builder *CommandGroupBuilder) deleteLocalBranch(command *cobra.Command, environment pullRequestEnvironment, styles ui.Styles, branchName string) error {
	executionContext := command.Context()
	branchService, serviceError := branches.NewService(branches.ServiceDependencies{GitExecutor: environment.gitExecutor})
	if serviceError != nil {
		return serviceError
	}

	exists, lookupError := branchService.BranchExists(executionContext, environment.repositoryPath, branchName)
	if lookupError != nil || !exists {
		return lookupError
	}

	currentBranch, currentBranchError := environment.repositoryManager.GetCurrentBranch(executionContext, environment.repositoryPath)
	if currentBranchError == nil && currentBranch == branchName {
		styles.Notice(keptLabelConstant, fmt.Sprintf(keptCheckedOutTemplateConstant, branchName))
		return nil
	}

	if deleteError := branchService.DeleteBranch(executionContext, environment.repositoryPath, branchName, true); deleteError != nil {
		return deleteError
	}
	styles.Success(deletedLabelConstant, branchName)
	return nil
}
