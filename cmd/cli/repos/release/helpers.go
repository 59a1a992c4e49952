package release

import (
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

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

// resolveCollaborators returns the logger and the git collaborators shared by every release step.
func (builder *CommandBuilder) resolveCollaborators() (*zap.Logger, shared.GitExecutor, shared.GitRepositoryManager, error) {
	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadable)
	if executorError != nil {
		return nil, nil, nil, executorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return nil, nil, nil, managerError
	}
	return logger, gitExecutor, repositoryManager, nil
}
