package dependencies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubauth"
	"github.com/temirov/hubkit/internal/githubcli"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func (stubGitExecutor) ExecuteGitHubCLI(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveGitExecutorPrefersExisting(t *testing.T) {
	existing := stubGitExecutor{}
	resolved, err := ResolveGitExecutor(existing, zap.NewNop(), false)
	require.NoError(t, err)
	require.Equal(t, existing, resolved)
}

func TestResolveGitExecutorBuildsShellExecutor(t *testing.T) {
	for _, humanReadable := range []bool{false, true} {
		resolved, err := ResolveGitExecutor(nil, zap.NewNop(), humanReadable)
		require.NoError(t, err)
		require.IsType(t, &execshell.ShellExecutor{}, resolved)
	}

	_, err := ResolveGitExecutor(nil, nil, false)
	require.ErrorIs(t, err, execshell.ErrLoggerNotConfigured)
}

func TestResolveCollaboratorsFromExecutor(t *testing.T) {
	manager, managerError := ResolveGitRepositoryManager(nil, stubGitExecutor{})
	require.NoError(t, managerError)
	require.NotNil(t, manager)

	resolver, resolverError := ResolveGitHubResolver(nil, stubGitExecutor{})
	require.NoError(t, resolverError)
	require.IsType(t, &githubcli.Client{}, resolver)
}

func TestResolveGitHubAPIClientUsesConfiguredToken(t *testing.T) {
	client, err := ResolveGitHubAPIClient(context.Background(), GitHubAPIOptions{Token: "configured", BaseURL: "https://github.example.com/"}, nil)
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestResolveGitHubAPIClientWithoutTokenFails(t *testing.T) {
	for _, variableName := range []string{githubauth.EnvGitHubCLIToken, githubauth.EnvGitHubToken, githubauth.EnvGitHubAPIToken} {
		t.Setenv(variableName, "")
	}

	_, err := ResolveGitHubAPIClient(context.Background(), GitHubAPIOptions{}, nil)
	require.ErrorIs(t, err, githubauth.ErrTokenNotFound)
}

func TestAPIHostname(t *testing.T) {
	require.Equal(t, "", apiHostname(""))
	require.Equal(t, "github.example.com", apiHostname("https://github.example.com/api/v3/"))
}
