package branches

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	listCommandUseConstant              = "branches"
	listCommandShortDescriptionConstant = "List version branches in version order"
	listCommandLongDescriptionConstant  = "branches prints the branches named like 1.0, v1.1 or 2.x, ordered by major and minor version with x after every numbered minor of the same major."
	listCommandExampleConstant          = "hubkit branches --remote upstream"
	flagRemoteNameConstant              = "remote"
	flagRemoteDescriptionConstant       = "Remote whose branches are listed"
	flagLocalNameConstant               = "local"
	flagLocalDescriptionConstant        = "List local branches instead of remote-tracking branches"
	emptyListMessageConstant            = "no version branches found"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// ListCommandBuilder assembles the branches command.
type ListCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() ListConfiguration
}

// Build constructs the branches command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     listCommandUseConstant,
		Short:   listCommandShortDescriptionConstant,
		Long:    listCommandLongDescriptionConstant,
		Example: listCommandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	command.Flags().String(flagRemoteNameConstant, "", flagRemoteDescriptionConstant)
	command.Flags().Bool(flagLocalNameConstant, false, flagLocalDescriptionConstant)

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := DefaultListConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}

	remoteFlagValue, _ := command.Flags().GetString(flagRemoteNameConstant)
	remoteName := firstNonEmpty(remoteFlagValue, configuration.RemoteName, defaultRemoteNameConstant)
	if listLocal, _ := command.Flags().GetBool(flagLocalNameConstant); listLocal {
		remoteName = ""
	}

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveHumanReadable(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{GitExecutor: gitExecutor})
	if serviceError != nil {
		return serviceError
	}

	repositoryPath := utils.NewCommandContextAccessor().RepositoryPath(command.Context())
	branchNames, listError := service.ListVersionBranches(command.Context(), repositoryPath, remoteName)
	if listError != nil {
		return listError
	}

	if len(branchNames) == 0 {
		fmt.Fprintln(command.ErrOrStderr(), emptyListMessageConstant)
		return nil
	}
	for _, branchName := range branchNames {
		fmt.Fprintln(command.OutOrStdout(), branchName)
	}
	return nil
}

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
