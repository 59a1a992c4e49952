// Package dependencies resolves default implementations for collaborators left unset by command builders.
package dependencies

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/githubauth"
	"github.com/temirov/hubkit/internal/githubcli"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/ui"
)

const githubTokenResolutionTemplateConstant = "GitHub API access requires a token: %w"

// GitHubAPIOptions carry the configured token and API base URL.
type GitHubAPIOptions struct {
	Token   string
	BaseURL string
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging routes command lifecycle events through the console event logger.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var executorOptions []execshell.ShellExecutorOption
	if humanReadableLogging {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	repositoryManager, creationError := gitrepo.NewRepositoryManager(executor)
	if creationError != nil {
		return nil, creationError
	}
	return repositoryManager, nil
}

// ResolveGitHubResolver returns the provided resolver or creates a GitHub CLI-backed implementation.
func ResolveGitHubResolver(existing shared.GitHubMetadataResolver, executor shared.GitExecutor) (shared.GitHubMetadataResolver, error) {
	if existing != nil {
		return existing, nil
	}
	client, creationError := githubcli.NewClient(executor)
	if creationError != nil {
		return nil, creationError
	}
	return client, nil
}

// ResolveGitHubAPIClient authenticates a GitHub API client with the configured token, the environment, or gh auth token.
func ResolveGitHubAPIClient(executionContext context.Context, options GitHubAPIOptions, executor shared.GitExecutor) (*githubapi.Client, error) {
	tokenResolver := githubauth.Resolver{
		ConfiguredToken: options.Token,
		Hostname:        apiHostname(options.BaseURL),
	}
	if executor != nil {
		if cliClient, cliError := githubcli.NewClient(executor); cliError == nil {
			tokenResolver.CLI = cliClient
		}
	}

	token, tokenError := tokenResolver.Resolve(executionContext)
	if tokenError != nil {
		return nil, fmt.Errorf(githubTokenResolutionTemplateConstant, tokenError)
	}

	return githubapi.NewClient(executionContext, githubapi.ClientOptions{Token: token.Value, BaseURL: options.BaseURL})
}

func apiHostname(baseURL string) string {
	trimmedBaseURL := strings.TrimSpace(baseURL)
	if len(trimmedBaseURL) == 0 {
		return ""
	}
	parsedURL, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil {
		return ""
	}
	return parsedURL.Hostname()
}
