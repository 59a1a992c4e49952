package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	repositoryPathRequiredMessageConstant    = "repository path must be provided"
	branchNameRequiredMessageConstant        = "branch name must be provided"
	remoteNameRequiredMessageConstant        = "remote name must be provided"
	gitExecutorMissingMessageConstant        = "git executor not configured"
	worktreeNotCleanMessageConstant          = "repository worktree is not clean"
	listBranchesFailureTemplateConstant      = "failed to list branches: %w"
	fetchFailureTemplateConstant             = "failed to fetch %s: %w"
	revisionFailureTemplateConstant          = "failed to resolve %s: %w"
	mergeBaseFailureTemplateConstant         = "failed to find merge base of %s and %s: %w"
	pullFailureTemplateConstant              = "failed to pull %s from %s: %w"
	pushFailureTemplateConstant              = "failed to push %s to %s: %w"
	cleanVerificationFailureTemplateConstant = "failed to verify clean worktree: %w"
	branchLookupFailureTemplateConstant      = "failed to look up branch %q: %w"
	checkoutFailureTemplateConstant          = "failed to check out %q tracking %s: %w"
	deleteFailureTemplateConstant            = "failed to delete branch %q: %w"
	remoteReferenceTemplateConstant          = "%s/%s"
	localHeadsReferenceConstant              = "refs/heads"
	localHeadReferenceTemplateConstant       = "refs/heads/%s"
	remoteHeadsReferenceTemplateConstant     = "refs/remotes/%s"
	remoteHeadReferenceTemplateConstant      = "refs/remotes/%s/%s"
	localShortNameFormatConstant             = "--format=%(refname:lstrip=2)"
	remoteShortNameFormatConstant            = "--format=%(refname:lstrip=3)"
	gitForEachRefSubcommandConstant          = "for-each-ref"
	gitFetchSubcommandConstant               = "fetch"
	gitFetchPruneFlagConstant                = "--prune"
	gitRevParseSubcommandConstant            = "rev-parse"
	gitVerifyFlagConstant                    = "--verify"
	gitMergeBaseSubcommandConstant           = "merge-base"
	gitPullSubcommandConstant                = "pull"
	gitPullRebaseFlagConstant                = "--rebase"
	gitPushSubcommandConstant                = "push"
	gitShowRefSubcommandConstant             = "show-ref"
	gitQuietFlagConstant                     = "--quiet"
	gitLsRemoteSubcommandConstant            = "ls-remote"
	gitExitCodeFlagConstant                  = "--exit-code"
	gitHeadsFlagConstant                     = "--heads"
	gitSwitchSubcommandConstant              = "switch"
	gitCreateBranchFlagConstant              = "-c"
	gitTrackFlagConstant                     = "--track"
	gitBranchSubcommandConstant              = "branch"
	gitDeleteFlagConstant                    = "-d"
	gitForceDeleteFlagConstant               = "-D"
	remoteHeadNameConstant                   = "HEAD"
	gitSymbolicRefSubcommandConstant         = "symbolic-ref"
	gitShortFlagConstant                     = "--short"
	refspecTemplateConstant                  = "%s:%s"
	symbolicRefDetachedExitCodeConstant      = 1
	showRefMissingExitCodeConstant           = 1
	lsRemoteMissingExitCodeConstant          = 2
)

var (
	// ErrRepositoryPathRequired indicates the repository path option was empty.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrBranchNameRequired indicates the branch name option was empty.
	ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)
	// ErrRemoteNameRequired indicates the remote name option was empty.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	// ErrWorktreeNotClean indicates a pull was refused because the worktree has changes.
	ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)
)

// ServiceDependencies enumerates collaborators required by the service.
// RepositoryManager is only needed when SyncOptions.RequireClean is set.
type ServiceDependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
}

// SyncOptions configure EnsureBranchInSync and RemoteDiffStatus.
// RemoteBranch defaults to LocalBranch. A KnownStatus other than SyncStatusUnknown skips the remote comparison.
type SyncOptions struct {
	RepositoryPath string
	RemoteName     string
	LocalBranch    string
	RemoteBranch   string
	AllowPush      bool
	KnownStatus    SyncStatus
	RequireClean   bool
}

// SyncResult captures the status that was acted on and the action taken.
type SyncResult struct {
	LocalBranch  string
	RemoteBranch string
	RemoteName   string
	Status       SyncStatus
	Action       SyncAction
}

// Service runs branch operations through git.
type Service struct {
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor, repositoryManager: dependencies.RepositoryManager}, nil
}

// ListVersionBranches returns the version branches of a remote, or of the local heads when remoteName is empty, in version order.
func (service *Service) ListVersionBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	arguments := []string{gitForEachRefSubcommandConstant, localShortNameFormatConstant, localHeadsReferenceConstant}
	if trimmedRemoteName := strings.TrimSpace(remoteName); len(trimmedRemoteName) > 0 {
		arguments = []string{gitForEachRefSubcommandConstant, remoteShortNameFormatConstant, fmt.Sprintf(remoteHeadsReferenceTemplateConstant, trimmedRemoteName)}
	}

	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return nil, fmt.Errorf(listBranchesFailureTemplateConstant, executionError)
	}

	branchNames := make([]string, 0)
	for _, line := range strings.Split(executionResult.StandardOutput, "\n") {
		branchName := strings.TrimSpace(line)
		if len(branchName) == 0 || branchName == remoteHeadNameConstant {
			continue
		}
		branchNames = append(branchNames, branchName)
	}
	return SortVersionBranches(branchNames), nil
}

// Fetch updates the remote-tracking references of remoteName.
func (service *Service) Fetch(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitFetchSubcommandConstant, gitFetchPruneFlagConstant, remoteName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	if executionError != nil {
		return fmt.Errorf(fetchFailureTemplateConstant, remoteName, executionError)
	}
	return nil
}

// RemoteDiffStatus compares the local branch with its remote-tracking branch.
// The remote-tracking reference reflects the last fetch.
func (service *Service) RemoteDiffStatus(executionContext context.Context, options SyncOptions) (SyncStatus, error) {
	normalizedOptions, validationError := normalizeSyncOptions(options)
	if validationError != nil {
		return SyncStatusUnknown, validationError
	}

	localReference := fmt.Sprintf(localHeadReferenceTemplateConstant, normalizedOptions.LocalBranch)
	remoteReference := fmt.Sprintf(remoteHeadReferenceTemplateConstant, normalizedOptions.RemoteName, normalizedOptions.RemoteBranch)

	localRevision, localError := service.resolveRevision(executionContext, normalizedOptions.RepositoryPath, localReference)
	if localError != nil {
		return SyncStatusUnknown, localError
	}
	remoteRevision, remoteError := service.resolveRevision(executionContext, normalizedOptions.RepositoryPath, remoteReference)
	if remoteError != nil {
		return SyncStatusUnknown, remoteError
	}
	if localRevision == remoteRevision {
		return SyncStatusUpToDate, nil
	}

	mergeBaseResult, mergeBaseError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitMergeBaseSubcommandConstant, localReference, remoteReference},
		WorkingDirectory: normalizedOptions.RepositoryPath,
	})
	if mergeBaseError != nil {
		if exitCode, failed := execshell.ExitCodeOf(mergeBaseError); failed && exitCode == 1 {
			return SyncStatusDiverged, nil
		}
		return SyncStatusUnknown, fmt.Errorf(mergeBaseFailureTemplateConstant, localReference, remoteReference, mergeBaseError)
	}

	switch strings.TrimSpace(mergeBaseResult.StandardOutput) {
	case localRevision:
		return SyncStatusNeedPull, nil
	case remoteRevision:
		return SyncStatusNeedPush, nil
	default:
		return SyncStatusDiverged, nil
	}
}

// Pull brings localBranch up to remoteName/remoteBranch.
// The checked-out branch is rebased in place; any other branch is fast-forwarded through a fetch refspec
// so the worktree and the current branch stay untouched.
func (service *Service) Pull(executionContext context.Context, repositoryPath string, remoteName string, remoteBranch string, localBranch string) error {
	currentBranch, currentBranchError := service.currentBranch(executionContext, repositoryPath)
	if currentBranchError != nil {
		return fmt.Errorf(pullFailureTemplateConstant, localBranch, remoteName, currentBranchError)
	}

	arguments := []string{gitPullSubcommandConstant, gitPullRebaseFlagConstant, remoteName, remoteBranch}
	if currentBranch != localBranch {
		arguments = []string{gitFetchSubcommandConstant, remoteName, branchRefspec(remoteBranch, localBranch)}
	}

	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	if executionError != nil {
		return fmt.Errorf(pullFailureTemplateConstant, localBranch, remoteName, executionError)
	}
	return nil
}

// Push publishes localBranch to remoteName/remoteBranch.
func (service *Service) Push(executionContext context.Context, repositoryPath string, remoteName string, localBranch string, remoteBranch string) error {
	target := localBranch
	if len(remoteBranch) > 0 && remoteBranch != localBranch {
		target = branchRefspec(localBranch, remoteBranch)
	}
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitPushSubcommandConstant, remoteName, target},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	if executionError != nil {
		return fmt.Errorf(pushFailureTemplateConstant, localBranch, remoteName, executionError)
	}
	return nil
}

// EnsureBranchInSync pulls or pushes the local branch so it matches its remote, performing at most one of the two.
func (service *Service) EnsureBranchInSync(executionContext context.Context, options SyncOptions) (SyncResult, error) {
	normalizedOptions, validationError := normalizeSyncOptions(options)
	if validationError != nil {
		return SyncResult{}, validationError
	}

	result := SyncResult{
		LocalBranch:  normalizedOptions.LocalBranch,
		RemoteBranch: normalizedOptions.RemoteBranch,
		RemoteName:   normalizedOptions.RemoteName,
		Status:       normalizedOptions.KnownStatus,
	}

	if result.Status == SyncStatusUnknown {
		status, statusError := service.RemoteDiffStatus(executionContext, normalizedOptions)
		if statusError != nil {
			return result, statusError
		}
		result.Status = status
	}

	action, decisionError := DecideSync(result.Status, normalizedOptions.LocalBranch, normalizedOptions.AllowPush)
	if decisionError != nil {
		return result, decisionError
	}

	switch action {
	case SyncActionPull:
		if normalizedOptions.RequireClean {
			if cleanError := service.requireCleanWorktree(executionContext, normalizedOptions.RepositoryPath); cleanError != nil {
				return result, cleanError
			}
		}
		if pullError := service.Pull(executionContext, normalizedOptions.RepositoryPath, normalizedOptions.RemoteName, normalizedOptions.RemoteBranch, normalizedOptions.LocalBranch); pullError != nil {
			return result, pullError
		}
	case SyncActionPush:
		if pushError := service.Push(executionContext, normalizedOptions.RepositoryPath, normalizedOptions.RemoteName, normalizedOptions.LocalBranch, normalizedOptions.RemoteBranch); pushError != nil {
			return result, pushError
		}
	}

	result.Action = action
	return result, nil
}

// BranchExists reports whether a local branch exists.
func (service *Service) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitShowRefSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, fmt.Sprintf(localHeadReferenceTemplateConstant, branchName)},
		WorkingDirectory: repositoryPath,
	})
	return interpretLookup(branchName, executionError, showRefMissingExitCodeConstant)
}

// RemoteBranchExists asks the remote whether it has the branch.
func (service *Service) RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitLsRemoteSubcommandConstant, gitExitCodeFlagConstant, gitHeadsFlagConstant, remoteName, branchName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	return interpretLookup(branchName, executionError, lsRemoteMissingExitCodeConstant)
}

// CheckoutRemoteBranch creates localBranch tracking remoteName/remoteBranch and switches to it.
func (service *Service) CheckoutRemoteBranch(executionContext context.Context, repositoryPath string, remoteName string, remoteBranch string, localBranch string) error {
	trackReference := fmt.Sprintf(remoteReferenceTemplateConstant, remoteName, remoteBranch)
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSwitchSubcommandConstant, gitCreateBranchFlagConstant, localBranch, gitTrackFlagConstant, trackReference},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(checkoutFailureTemplateConstant, localBranch, trackReference, executionError)
	}
	return nil
}

// DeleteBranch removes a local branch; force also removes unmerged work.
func (service *Service) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string, force bool) error {
	deleteFlag := gitDeleteFlagConstant
	if force {
		deleteFlag = gitForceDeleteFlagConstant
	}
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, deleteFlag, branchName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(deleteFailureTemplateConstant, branchName, executionError)
	}
	return nil
}

func (service *Service) currentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	if service.repositoryManager != nil {
		return service.repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	}
	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitShortFlagConstant, remoteHeadNameConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == symbolicRefDetachedExitCodeConstant {
			return "", nil
		}
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func branchRefspec(sourceBranch string, destinationBranch string) string {
	return fmt.Sprintf(refspecTemplateConstant, sourceBranch, destinationBranch)
}

func (service *Service) resolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitVerifyFlagConstant, reference},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(revisionFailureTemplateConstant, reference, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (service *Service) requireCleanWorktree(executionContext context.Context, repositoryPath string) error {
	if service.repositoryManager == nil {
		return nil
	}
	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil {
		return fmt.Errorf(cleanVerificationFailureTemplateConstant, cleanError)
	}
	if !clean {
		return ErrWorktreeNotClean
	}
	return nil
}

func interpretLookup(branchName string, executionError error, missingExitCode int) (bool, error) {
	if executionError == nil {
		return true, nil
	}
	if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == missingExitCode {
		return false, nil
	}
	return false, fmt.Errorf(branchLookupFailureTemplateConstant, branchName, executionError)
}

func normalizeSyncOptions(options SyncOptions) (SyncOptions, error) {
	normalized := options
	normalized.RepositoryPath = strings.TrimSpace(options.RepositoryPath)
	normalized.RemoteName = strings.TrimSpace(options.RemoteName)
	normalized.LocalBranch = strings.TrimSpace(options.LocalBranch)
	normalized.RemoteBranch = strings.TrimSpace(options.RemoteBranch)

	if len(normalized.RepositoryPath) == 0 {
		return SyncOptions{}, ErrRepositoryPathRequired
	}
	if len(normalized.RemoteName) == 0 {
		return SyncOptions{}, ErrRemoteNameRequired
	}
	if len(normalized.LocalBranch) == 0 {
		return SyncOptions{}, ErrBranchNameRequired
	}
	if len(normalized.RemoteBranch) == 0 {
		normalized.RemoteBranch = normalized.LocalBranch
	}
	return normalized, nil
}
