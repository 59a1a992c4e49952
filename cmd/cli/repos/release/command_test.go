package release

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/utils"
)

type stubGitExecutor struct {
	outputs  map[string]string
	recorded []string
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	command := strings.Join(details.Arguments, " ")
	executor.recorded = append(executor.recorded, command)
	if strings.HasPrefix(command, "config --get") {
		if output, known := executor.outputs[command]; known {
			return execshell.ExecutionResult{StandardOutput: output}, nil
		}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 1}}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[command]}, nil
}

func (executor *stubGitExecutor) ExecuteGitHubCLI(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
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

type recordingPublisher struct {
	requests []githubapi.ReleaseRequest
}

func (publisher *recordingPublisher) CreateRelease(_ context.Context, request githubapi.ReleaseRequest) (githubapi.Release, error) {
	publisher.requests = append(publisher.requests, request)
	return githubapi.Release{TagName: request.TagName, HTMLURL: "https://github.com/temirov/hubkit/releases/tag/" + request.TagName}, nil
}

func runReleaseCommand(t *testing.T, builder CommandBuilder, arguments ...string) (string, error) {
	t.Helper()
	builder.LoggerProvider = func() *zap.Logger { return zap.NewNop() }
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&output)
	command.SetArgs(arguments)
	command.SetContext(utils.NewCommandContextAccessor().WithRepositoryPath(context.Background(), "/tmp/project"))
	executionError := command.Execute()
	return output.String(), executionError
}

func TestCommandBuilds(t *testing.T) {
	builder := CommandBuilder{}
	command, err := builder.Build()
	require.NoError(t, err)
	require.IsType(t, &cobra.Command{}, command)
	require.Equal(t, commandUsageTemplate, strings.TrimSpace(command.Use))
	require.NotEmpty(t, strings.TrimSpace(command.Example))
}

func TestCommandRequiresVersionArgument(t *testing.T) {
	_, executionError := runReleaseCommand(t, CommandBuilder{GitExecutor: &stubGitExecutor{}, RepositoryManager: stubRepositoryManager{currentBranch: "1.2"}})
	require.Error(t, executionError)
}

func TestCommandReleasesFromVersionBranch(t *testing.T) {
	executor := &stubGitExecutor{}
	publisher := &recordingPublisher{}
	output, executionError := runReleaseCommand(t, CommandBuilder{
		GitExecutor:       executor,
		RepositoryManager: stubRepositoryManager{currentBranch: "1.2"},
		Publisher:         publisher,
		ConfigurationProvider: func() CommandConfiguration {
			return CommandConfiguration{RemoteName: "upstream", Publish: true}
		},
	}, "1.2.3", "--draft")
	require.NoError(t, executionError)

	require.Contains(t, executor.recorded, "fetch --prune upstream")
	require.Contains(t, executor.recorded, "tag -a v1.2.3 -m Release v1.2.3")
	require.Contains(t, executor.recorded, "push upstream v1.2.3")
	require.Contains(t, output, "RELEASED: v1.2.3 from 1.2")
	require.Contains(t, output, "PUBLISHED: https://github.com/temirov/hubkit/releases/tag/v1.2.3")

	require.Len(t, publisher.requests, 1)
	require.Equal(t, "temirov", publisher.requests[0].Owner)
	require.Equal(t, "hubkit", publisher.requests[0].Repository)
	require.True(t, publisher.requests[0].Draft)
}

func TestCommandDryRunUsesGitConfigAlias(t *testing.T) {
	executor := &stubGitExecutor{outputs: map[string]string{"config --get branch.master.alias": "2.1-dev\n"}}
	publisher := &recordingPublisher{}
	output, executionError := runReleaseCommand(t, CommandBuilder{
		GitExecutor:       executor,
		RepositoryManager: stubRepositoryManager{currentBranch: "master"},
		Publisher:         publisher,
	}, "2.1.0", "--dry-run")
	require.NoError(t, executionError)
	require.Contains(t, output, "DRY RUN: v2.1.0 can be released from master")
	require.Equal(t, []string{"config --get branch.master.alias"}, executor.recorded)
	require.Empty(t, publisher.requests)
}

func TestCommandRejectsIncompatibleBranch(t *testing.T) {
	executor := &stubGitExecutor{}
	_, executionError := runReleaseCommand(t, CommandBuilder{
		GitExecutor:       executor,
		RepositoryManager: stubRepositoryManager{currentBranch: "1.2"},
		Publisher:         &recordingPublisher{},
	}, "1.3.0")
	require.ErrorContains(t, executionError, "cannot be released from branch \"1.2\"")
	for _, recorded := range executor.recorded {
		require.False(t, strings.HasPrefix(recorded, "tag"))
	}
}

func TestCommandSkipsPublishingWhenDisabled(t *testing.T) {
	executor := &stubGitExecutor{}
	publisher := &recordingPublisher{}
	output, executionError := runReleaseCommand(t, CommandBuilder{
		GitExecutor:       executor,
		RepositoryManager: stubRepositoryManager{currentBranch: "1.x"},
		Publisher:         publisher,
	}, "1.4.0", "--publish=false")
	require.NoError(t, executionError)
	require.Contains(t, output, "RELEASED: v1.4.0 from 1.x")
	require.NotContains(t, output, "PUBLISHED")
	require.Empty(t, publisher.requests)
}
