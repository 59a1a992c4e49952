package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	gitStatusSubcommandConstant          = "status"
	gitStatusPorcelainFlagConstant       = "--porcelain"
	gitRevParseSubcommandConstant        = "rev-parse"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	gitRemoteSubcommandConstant          = "remote"
	gitRemoteGetURLSubcommandConstant    = "get-url"
	executorNotConfiguredMessageConstant = "git executor not configured"
	detachedHeadMessageConstant          = "repository is in a detached HEAD state"
	cleanCheckErrorTemplateConstant      = "failed to check worktree status in %s: %w"
	currentBranchErrorTemplateConstant   = "failed to resolve current branch in %s: %w"
	remoteURLErrorTemplateConstant       = "failed to read URL of remote %q in %s: %w"
)

var (
	// ErrExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrDetachedHead indicates HEAD does not point at a branch.
	ErrDetachedHead = errors.New(detachedHeadMessageConstant)
)

// RepositoryManager answers repository-level questions through git.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckCleanWorktree reports whether the working tree has no staged, unstaged or untracked changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, fmt.Errorf(cleanCheckErrorTemplateConstant, repositoryPath, executionError)
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetCurrentBranch returns the short name of the checked out branch.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, repositoryPath, executionError)
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if branchName == gitHeadReferenceConstant || len(branchName) == 0 {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// GetRemoteURL returns the fetch URL configured for remoteName.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(remoteURLErrorTemplateConstant, remoteName, repositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ResolveRemoteRepository reads the remote URL and parses it into owner and repository.
func (manager *RepositoryManager) ResolveRemoteRepository(executionContext context.Context, repositoryPath string, remoteName string) (RemoteURL, error) {
	remoteURL, remoteError := manager.GetRemoteURL(executionContext, repositoryPath, remoteName)
	if remoteError != nil {
		return RemoteURL{}, remoteError
	}
	return ParseRemoteURL(remoteURL)
}
