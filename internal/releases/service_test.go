package releases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkit/internal/alias"
	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
)

type recordingGitExecutor struct {
	commands []execshell.CommandDetails
	errors   []error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if len(executor.errors) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	value := executor.errors[0]
	executor.errors = executor.errors[1:]
	if value != nil {
		return execshell.ExecutionResult{}, value
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingGitExecutor) ExecuteGitHubCLI(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

type stubRepositoryManager struct {
	currentBranch string
}

func (manager stubRepositoryManager) CheckCleanWorktree(context.Context, string) (bool, error) {
	return true, nil
}

func (manager stubRepositoryManager) GetCurrentBranch(context.Context, string) (string, error) {
	return manager.currentBranch, nil
}

func (manager stubRepositoryManager) GetRemoteURL(context.Context, string, string) (string, error) {
	return "git@github.com:temirov/hubkit.git", nil
}

type recordingSynchronizer struct {
	options []branches.SyncOptions
	err     error
}

func (synchronizer *recordingSynchronizer) EnsureBranchInSync(_ context.Context, options branches.SyncOptions) (branches.SyncResult, error) {
	synchronizer.options = append(synchronizer.options, options)
	return branches.SyncResult{LocalBranch: options.LocalBranch, Status: branches.SyncStatusUpToDate}, synchronizer.err
}

type stubAliasResolver struct {
	alias string
	err   error
}

func (resolver stubAliasResolver) Resolve(context.Context) (alias.Resolution, error) {
	return alias.Resolution{Alias: resolver.alias, Source: alias.SourceGitConfig}, resolver.err
}

type recordingPublisher struct {
	requests []githubapi.ReleaseRequest
	err      error
}

func (publisher *recordingPublisher) CreateRelease(_ context.Context, request githubapi.ReleaseRequest) (githubapi.Release, error) {
	publisher.requests = append(publisher.requests, request)
	if publisher.err != nil {
		return githubapi.Release{}, publisher.err
	}
	return githubapi.Release{TagName: request.TagName, HTMLURL: "https://github.com/temirov/hubkit/releases/tag/" + request.TagName}, nil
}

func TestReleaseExecutesTagAndPush(t *testing.T) {
	executor := &recordingGitExecutor{}
	service, err := NewService(ServiceDependencies{GitExecutor: executor})
	require.NoError(t, err)

	result, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.2.3", Branch: "1.2", RemoteName: "upstream"})
	require.NoError(t, releaseError)
	require.Equal(t, Result{RepositoryPath: "/tmp/repo", TagName: "v1.2.3", Branch: "1.2"}, result)
	require.Len(t, executor.commands, 2)
	require.Equal(t, []string{"tag", "-a", "v1.2.3", "-m", "Release v1.2.3"}, executor.commands[0].Arguments)
	require.Equal(t, []string{"push", "upstream", "v1.2.3"}, executor.commands[1].Arguments)
	require.Equal(t, "0", executor.commands[1].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
}

func TestReleaseDryRunSkipsGitCommands(t *testing.T) {
	executor := &recordingGitExecutor{}
	synchronizer := &recordingSynchronizer{}
	service, err := NewService(ServiceDependencies{GitExecutor: executor, BranchSynchronizer: synchronizer})
	require.NoError(t, err)

	result, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "v1.0.0", Branch: "1.x", DryRun: true})
	require.NoError(t, releaseError)
	require.Equal(t, "v1.0.0", result.TagName)
	require.Empty(t, executor.commands)
	require.Empty(t, synchronizer.options)
}

func TestReleaseValidatesInputs(t *testing.T) {
	service, err := NewService(ServiceDependencies{GitExecutor: &recordingGitExecutor{}})
	require.NoError(t, err)

	_, releaseError := service.Release(context.Background(), Options{Version: "1.0.0", Branch: "1.0"})
	require.ErrorIs(t, releaseError, ErrRepositoryPathRequired)

	_, releaseError = service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Branch: "1.0"})
	require.ErrorIs(t, releaseError, ErrVersionRequired)

	_, releaseError = service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0", Branch: "1.0"})
	require.ErrorContains(t, releaseError, "invalid release version")

	_, releaseError = service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0.0"})
	require.ErrorIs(t, releaseError, ErrBranchUnavailable)
}

func TestReleasePropagatesErrors(t *testing.T) {
	executor := &recordingGitExecutor{errors: []error{errors.New("tag failed")}}
	service, err := NewService(ServiceDependencies{GitExecutor: executor})
	require.NoError(t, err)

	_, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0.0", Branch: "1.0"})
	require.ErrorContains(t, releaseError, "tag failed")
	require.Len(t, executor.commands, 1)
}

func TestReleaseChecksVersionBranchCompatibility(t *testing.T) {
	testCases := []struct {
		name       string
		version    string
		branch     string
		compatible bool
	}{
		{name: "matching_minor", version: "1.2.3", branch: "1.2", compatible: true},
		{name: "prefixed_branch", version: "1.2.0", branch: "v1.2", compatible: true},
		{name: "wildcard_branch", version: "1.7.0", branch: "1.x", compatible: true},
		{name: "other_minor", version: "1.3.0", branch: "1.2", compatible: false},
		{name: "other_major", version: "2.0.0", branch: "1.x", compatible: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(subtest *testing.T) {
			service, err := NewService(ServiceDependencies{GitExecutor: &recordingGitExecutor{}})
			require.NoError(subtest, err)

			_, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: testCase.version, Branch: testCase.branch, DryRun: true})
			if testCase.compatible {
				require.NoError(subtest, releaseError)
				return
			}
			require.ErrorIs(subtest, releaseError, ErrBranchIncompatible)
			var incompatibleError BranchIncompatibleError
			require.ErrorAs(subtest, releaseError, &incompatibleError)
			require.Equal(subtest, testCase.branch, incompatibleError.BranchName)
		})
	}
}

func TestReleaseChecksAliasOnPrimaryBranch(t *testing.T) {
	testCases := []struct {
		name          string
		alias         string
		resolveError  error
		version       string
		expectedError error
	}{
		{name: "matching_alias", alias: "2.1-dev", version: "2.1.0"},
		{name: "manifest_form_alias", alias: "2.1.x-dev", version: "2.1.4"},
		{name: "mismatched_alias", alias: "2.1-dev", version: "2.2.0", expectedError: ErrBranchIncompatible},
		{name: "unreadable_alias", alias: "next", version: "2.2.0", expectedError: ErrBranchIncompatible},
		{name: "alias_unavailable", resolveError: alias.ErrAliasUnavailable, version: "2.1.0", expectedError: alias.ErrAliasUnavailable},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(subtest *testing.T) {
			service, err := NewService(ServiceDependencies{
				GitExecutor:       &recordingGitExecutor{},
				RepositoryManager: stubRepositoryManager{currentBranch: "master"},
				AliasResolver:     stubAliasResolver{alias: testCase.alias, err: testCase.resolveError},
			})
			require.NoError(subtest, err)

			result, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: testCase.version, DryRun: true})
			if testCase.expectedError == nil {
				require.NoError(subtest, releaseError)
				require.Equal(subtest, "master", result.Branch)
				return
			}
			require.ErrorIs(subtest, releaseError, testCase.expectedError)
		})
	}
}

func TestReleaseRequiresAliasResolverForNonVersionBranch(t *testing.T) {
	service, err := NewService(ServiceDependencies{GitExecutor: &recordingGitExecutor{}})
	require.NoError(t, err)

	_, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0.0", Branch: "master"})
	require.ErrorIs(t, releaseError, ErrAliasResolverNotConfigured)
}

func TestReleaseRefusesUnsyncedBranch(t *testing.T) {
	executor := &recordingGitExecutor{}
	synchronizer := &recordingSynchronizer{err: branches.SyncForbiddenError{BranchName: "1.0"}}
	service, err := NewService(ServiceDependencies{GitExecutor: executor, BranchSynchronizer: synchronizer})
	require.NoError(t, err)

	_, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0.1", Branch: "1.0", RemoteName: "origin"})
	require.ErrorIs(t, releaseError, branches.ErrSyncForbidden)
	require.Empty(t, executor.commands)

	require.Len(t, synchronizer.options, 1)
	require.False(t, synchronizer.options[0].AllowPush)
	require.True(t, synchronizer.options[0].RequireClean)
	require.Equal(t, "1.0", synchronizer.options[0].LocalBranch)
}

func TestReleasePublishesGitHubRelease(t *testing.T) {
	publisher := &recordingPublisher{}
	service, err := NewService(ServiceDependencies{GitExecutor: &recordingGitExecutor{}, Publisher: publisher})
	require.NoError(t, err)

	result, releaseError := service.Release(context.Background(), Options{
		RepositoryPath: "/tmp/repo",
		Version:        "1.0.0-rc.1",
		Branch:         "1.0",
		Message:        "First candidate",
		Owner:          "temirov",
		Repository:     "hubkit",
		Draft:          true,
	})
	require.NoError(t, releaseError)
	require.True(t, result.Published)
	require.Equal(t, "https://github.com/temirov/hubkit/releases/tag/v1.0.0-rc.1", result.ReleaseURL)

	require.Len(t, publisher.requests, 1)
	request := publisher.requests[0]
	require.Equal(t, "v1.0.0-rc.1", request.TagName)
	require.Equal(t, "First candidate", request.Body)
	require.True(t, request.Draft)
	require.True(t, request.Prerelease)
}

func TestReleaseReportsPublishFailureAfterPush(t *testing.T) {
	executor := &recordingGitExecutor{}
	publisher := &recordingPublisher{err: errors.New("forbidden")}
	service, err := NewService(ServiceDependencies{GitExecutor: executor, Publisher: publisher})
	require.NoError(t, err)

	result, releaseError := service.Release(context.Background(), Options{RepositoryPath: "/tmp/repo", Version: "1.0.0", Branch: "1.0", Owner: "temirov", Repository: "hubkit"})
	require.ErrorContains(t, releaseError, "forbidden")
	require.Equal(t, "v1.0.0", result.TagName)
	require.False(t, result.Published)
	require.Len(t, executor.commands, 2)
}
