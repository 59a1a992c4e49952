package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	remoteRepositoryFailureTemplateConstant = "failed to identify the GitHub repository behind remote %s: %w"
	repositoryNameSeparatorConstant         = "/"
	repositoryNameInvalidTemplateConstant   = "repository %q must be <name> or <owner>/<name>"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// GitHubOptionsProvider yields the configured GitHub API token and base URL.
type GitHubOptionsProvider func() dependencies.GitHubAPIOptions

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveHumanReadable(provider func() bool) bool {
	return provider != nil && provider()
}

func resolveGitHubOptions(provider GitHubOptionsProvider) dependencies.GitHubAPIOptions {
	if provider == nil {
		return dependencies.GitHubAPIOptions{}
	}
	return provider()
}

func resolveRemoteRepository(executionContext context.Context, repositoryManager shared.GitRepositoryManager, repositoryPath string, remoteName string) (gitrepo.RemoteURL, error) {
	remoteURL, remoteError := repositoryManager.GetRemoteURL(executionContext, repositoryPath, remoteName)
	if remoteError != nil {
		return gitrepo.RemoteURL{}, fmt.Errorf(remoteRepositoryFailureTemplateConstant, remoteName, remoteError)
	}
	remoteRepository, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return gitrepo.RemoteURL{}, fmt.Errorf(remoteRepositoryFailureTemplateConstant, remoteName, parseError)
	}
	return remoteRepository, nil
}

// splitRepositoryName accepts name or owner/name; an empty owner means the authenticated user.
func splitRepositoryName(value string) (string, string, error) {
	trimmedValue := strings.TrimSpace(value)
	segments := strings.Split(trimmedValue, repositoryNameSeparatorConstant)
	switch {
	case len(segments) == 1 && len(segments[0]) > 0:
		return "", segments[0], nil
	case len(segments) == 2 && len(segments[0]) > 0 && len(segments[1]) > 0:
		return segments[0], segments[1], nil
	default:
		return "", "", fmt.Errorf(repositoryNameInvalidTemplateConstant, trimmedValue)
	}
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
