package repos_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/githubcli"
	"github.com/temirov/hubkit/internal/utils"
)

const testRepositoryPathConstant = "/tmp/project"

type fakeGitExecutor struct {
	outputs   map[string]string
	exitCodes map[string]int
	recorded  []string
}

func (executor *fakeGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	command := strings.Join(details.Arguments, " ")
	executor.recorded = append(executor.recorded, command)
	if exitCode, failing := executor.exitCodes[command]; failing {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: exitCode}}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[command]}, nil
}

func (executor *fakeGitExecutor) ExecuteGitHubCLI(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

type fakeGitRepositoryManager struct {
	remoteURL     string
	currentBranch string
}

func (manager *fakeGitRepositoryManager) CheckCleanWorktree(context.Context, string) (bool, error) {
	return true, nil
}

func (manager *fakeGitRepositoryManager) GetCurrentBranch(context.Context, string) (string, error) {
	return manager.currentBranch, nil
}

func (manager *fakeGitRepositoryManager) GetRemoteURL(context.Context, string, string) (string, error) {
	return manager.remoteURL, nil
}

type fakeGitHubResolver struct {
	defaultBranch string
}

func (resolver fakeGitHubResolver) ResolveRepoMetadata(_ context.Context, repository string) (githubcli.RepositoryMetadata, error) {
	return githubcli.RepositoryMetadata{NameWithOwner: repository, DefaultBranch: resolver.defaultBranch}, nil
}

type fakePullRequestLister struct {
	pullRequests []githubcli.PullRequest
	repository   string
	options      githubcli.PullRequestListOptions
}

func (lister *fakePullRequestLister) ListPullRequests(_ context.Context, repository string, options githubcli.PullRequestListOptions) ([]githubcli.PullRequest, error) {
	lister.repository = repository
	lister.options = options
	return lister.pullRequests, nil
}

type fakePullRequestAPI struct {
	createRequests []githubapi.PullRequestRequest
	mergeRequests  []githubapi.MergeRequest
	mergeResult    githubapi.MergeResult
}

func (api *fakePullRequestAPI) CreatePullRequest(_ context.Context, request githubapi.PullRequestRequest) (githubapi.PullRequest, error) {
	api.createRequests = append(api.createRequests, request)
	return githubapi.PullRequest{Number: 12, HTMLURL: "https://github.com/temirov/hubkit/pull/12", Head: request.Head, Base: request.Base}, nil
}

func (api *fakePullRequestAPI) MergePullRequest(_ context.Context, request githubapi.MergeRequest) (githubapi.MergeResult, error) {
	api.mergeRequests = append(api.mergeRequests, request)
	return api.mergeResult, nil
}

type fakeRepositoryCreator struct {
	requests []githubapi.RepositoryRequest
}

func (creator *fakeRepositoryCreator) CreateRepository(_ context.Context, request githubapi.RepositoryRequest) (githubapi.Repository, error) {
	creator.requests = append(creator.requests, request)
	fullName := request.Name
	if len(request.Owner) > 0 {
		fullName = request.Owner + "/" + request.Name
	}
	return githubapi.Repository{
		FullName: fullName,
		CloneURL: "https://github.com/" + fullName + ".git",
		SSHURL:   "git@github.com:" + fullName + ".git",
		Private:  request.Private,
	}, nil
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, string, error) {
	testInstance.Helper()
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	command.SetOut(&standardOutput)
	command.SetErr(&standardError)
	command.SetArgs(arguments)
	command.SilenceUsage = true
	command.SetContext(utils.NewCommandContextAccessor().WithRepositoryPath(context.Background(), testRepositoryPathConstant))
	executionError := command.Execute()
	return standardOutput.String(), standardError.String(), executionError
}
