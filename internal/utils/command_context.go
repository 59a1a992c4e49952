package utils

import (
	"context"
	"strings"
)

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	repositoryPathContextKeyConstant        = commandContextKey("repositoryPath")
	defaultRepositoryPathConstant           = "."
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return context.WithValue(ensureContext(parentContext), configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return lookupString(executionContext, configurationFilePathContextKeyConstant)
}

// WithRepositoryPath attaches the repository working directory to the provided context.
func (accessor CommandContextAccessor) WithRepositoryPath(parentContext context.Context, repositoryPath string) context.Context {
	return context.WithValue(ensureContext(parentContext), repositoryPathContextKeyConstant, strings.TrimSpace(repositoryPath))
}

// RepositoryPath returns the repository working directory, defaulting to the current directory.
func (accessor CommandContextAccessor) RepositoryPath(executionContext context.Context) string {
	repositoryPath, found := lookupString(executionContext, repositoryPathContextKeyConstant)
	if !found || len(repositoryPath) == 0 {
		return defaultRepositoryPathConstant
	}
	return repositoryPath
}

func ensureContext(parentContext context.Context) context.Context {
	if parentContext == nil {
		return context.Background()
	}
	return parentContext
}

func lookupString(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	return value, available
}
