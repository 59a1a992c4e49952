// Package gitconfig reads and writes git configuration values.
package gitconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	gitConfigSubcommandConstant          = "config"
	gitGetFlagConstant                   = "--get"
	gitReplaceAllFlagConstant            = "--replace-all"
	gitAddFlagConstant                   = "--add"
	unsetExitCodeConstant                = 1
	keyRequiredMessageConstant           = "git config key must be provided"
	executorNotConfiguredMessageConstant = "git executor not configured"
	readFailureTemplateConstant          = "failed to read git config %s: %w"
	writeFailureTemplateConstant         = "failed to write git config %s: %w"
)

var (
	// ErrKeyRequired indicates an empty configuration key.
	ErrKeyRequired = errors.New(keyRequiredMessageConstant)
	// ErrExecutorNotConfigured indicates the store was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// Scope selects the configuration file git reads or writes.
type Scope string

// Configuration scopes.
const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
	ScopeSystem Scope = "system"
	// ScopeAny reads the merged configuration and writes the repository configuration.
	ScopeAny Scope = ""
)

func (scope Scope) flag() (string, bool) {
	switch scope {
	case ScopeLocal, ScopeGlobal, ScopeSystem:
		return "--" + string(scope), true
	default:
		return "", false
	}
}

// Store reads and writes keys through git config in one repository.
type Store struct {
	executor       shared.GitExecutor
	repositoryPath string
}

// NewStore constructs a Store bound to repositoryPath.
func NewStore(executor shared.GitExecutor, repositoryPath string) (*Store, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Store{executor: executor, repositoryPath: repositoryPath}, nil
}

// Get returns the value of key, or an empty string when the key is unset.
func (store *Store) Get(executionContext context.Context, key string, scope Scope) (string, error) {
	trimmedKey := strings.TrimSpace(key)
	if len(trimmedKey) == 0 {
		return "", ErrKeyRequired
	}

	executionResult, executionError := store.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        store.arguments(scope, gitGetFlagConstant, trimmedKey),
		WorkingDirectory: store.repositoryPath,
	})
	if executionError != nil {
		if exitCode, failed := execshell.ExitCodeOf(executionError); failed && exitCode == unsetExitCodeConstant {
			return "", nil
		}
		return "", fmt.Errorf(readFailureTemplateConstant, trimmedKey, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Set stores value under key. With overwrite every existing value is replaced, otherwise the value is appended.
func (store *Store) Set(executionContext context.Context, key string, value string, scope Scope, overwrite bool) error {
	trimmedKey := strings.TrimSpace(key)
	if len(trimmedKey) == 0 {
		return ErrKeyRequired
	}

	modeFlag := gitAddFlagConstant
	if overwrite {
		modeFlag = gitReplaceAllFlagConstant
	}

	_, executionError := store.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        store.arguments(scope, modeFlag, trimmedKey, value),
		WorkingDirectory: store.repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, trimmedKey, executionError)
	}
	return nil
}

func (store *Store) arguments(scope Scope, trailing ...string) []string {
	arguments := []string{gitConfigSubcommandConstant}
	if scopeFlag, scoped := scope.flag(); scoped {
		arguments = append(arguments, scopeFlag)
	}
	return append(arguments, trailing...)
}
