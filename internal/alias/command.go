package alias

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/prompt"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/ui"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	commandUseConstant              = "branch-alias [alias]"
	commandShortDescriptionConstant = "Show or set the development alias of the primary branch"
	commandLongDescriptionConstant  = "branch-alias prints the development alias (for example 1.0-dev) of the primary branch and where it came from: composer.json extra.branch-alias, the branch.<primary>.alias git config key, or an interactive prompt whose answer is saved to git config. Passing an alias stores it in git config."
	commandExampleConstant          = "hubkit branch-alias\nhubkit branch-alias 2.1"
	aliasLabelConstant              = "ALIAS"
	aliasStoredLabelConstant        = "ALIAS SET"
	aliasDetailTemplateConstant     = "%s %s"
	provenanceTemplateConstant      = "(%s, branch %s)"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the branch-alias command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	GitHubResolver               shared.GitHubMetadataResolver
	ManifestReader               ManifestReader
	Prompter                     prompt.Prompter
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the branch-alias command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.MaximumNArgs(1),
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}

	logger := zap.NewNop()
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			logger = providedLogger
		}
	}
	humanReadable := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadable)
	if executorError != nil {
		return executorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}
	githubResolver, githubResolverError := dependencies.ResolveGitHubResolver(builder.GitHubResolver, gitExecutor)
	if githubResolverError != nil {
		return githubResolverError
	}

	prompter := builder.Prompter
	if prompter == nil && prompt.IsInteractive(os.Stdin) {
		prompter = prompt.NewTerminalPrompter(os.Stdin, os.Stderr)
	}

	executionContext := command.Context()
	repositoryPath := utils.NewCommandContextAccessor().RepositoryPath(executionContext)
	resolver, resolverError := NewRepositoryResolver(executionContext, FactoryDependencies{
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
		GitHubResolver:    githubResolver,
		ManifestReader:    builder.ManifestReader,
		Prompter:          prompter,
		Logger:            logger,
	}, configuration, repositoryPath)
	if resolverError != nil {
		return resolverError
	}

	styles := ui.NewStyles(command.OutOrStdout())
	if len(arguments) > 0 {
		resolution, setError := resolver.Set(executionContext, arguments[0])
		if setError != nil {
			return setError
		}
		styles.Success(aliasStoredLabelConstant, describe(styles, resolution))
		return nil
	}

	resolution, resolveError := resolver.Resolve(executionContext)
	if resolveError != nil {
		return resolveError
	}
	styles.Notice(aliasLabelConstant, describe(styles, resolution))
	return nil
}

func describe(styles ui.Styles, resolution Resolution) string {
	provenance := styles.Detail(fmt.Sprintf(provenanceTemplateConstant, resolution.Source, resolution.PrimaryBranch))
	return fmt.Sprintf(aliasDetailTemplateConstant, resolution.Alias, provenance)
}
