package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/hubkit/cmd/cli/repos"
	"github.com/temirov/hubkit/cmd/cli/repos/release"
	"github.com/temirov/hubkit/internal/alias"
	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	applicationNameConstant                   = "hubkit"
	applicationShortDescriptionConstant       = "Command-line interface for GitHub repository workflows"
	applicationLongDescriptionConstant        = "hubkit lists version branches, keeps branches in sync, resolves development branch aliases, cuts releases, and manages pull requests and repositories through git and the GitHub API."
	applicationVersionTemplateConstant        = "{{.Name}} version: {{.Version}}\n"
	configFileFlagNameConstant                = "config"
	configFileFlagUsageConstant               = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                  = "log-level"
	logLevelFlagUsageConstant                 = "Override the configured log level."
	logFormatFlagNameConstant                 = "log-format"
	logFormatFlagUsageConstant                = "Override the configured log format (structured or console)."
	repositoryFlagNameConstant                = "repository"
	repositoryFlagUsageConstant               = "Path to the local repository to operate on."
	defaultRepositoryPathConstant             = "."
	commonConfigurationKeyConstant            = "common"
	commonLogLevelConfigKeyConstant           = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant          = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                 = "HUBKIT"
	configurationNameConstant                 = "config"
	configurationTypeConstant                 = "yaml"
	configurationInitializedMessageConstant   = "configuration initialized"
	configurationLogLevelFieldConstant        = "log_level"
	configurationLogFormatFieldConstant       = "log_format"
	configurationFileFieldConstant            = "config_file"
	configurationRepositoryFieldConstant      = "repository"
	configurationLoadErrorTemplateConstant    = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant       = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant           = "unable to flush logger: %w"
	rootCommandInfoMessageConstant            = "hubkit CLI executed"
	rootCommandDebugMessageConstant           = "hubkit CLI diagnostics"
	logFieldCommandNameConstant               = "command_name"
	logFieldArgumentCountConstant             = "argument_count"
	logFieldArgumentsConstant                 = "arguments"
	loggerNotInitializedMessageConstant       = "logger not initialized"
	defaultConfigurationSearchPathConstant    = "."
	toolsConfigurationKeyConstant             = "tools"
	branchesConfigurationKeyConstant          = toolsConfigurationKeyConstant + ".branches"
	syncConfigurationKeyConstant              = toolsConfigurationKeyConstant + ".sync"
	branchAliasConfigurationKeyConstant       = toolsConfigurationKeyConstant + ".branch_alias"
	releaseConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".release"
	gitHubConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".github"
	branchesRemoteConfigKeyConstant           = branchesConfigurationKeyConstant + ".remote"
	syncRemoteConfigKeyConstant               = syncConfigurationKeyConstant + ".remote"
	syncAllowPushConfigKeyConstant            = syncConfigurationKeyConstant + ".allow_push"
	syncRequireCleanConfigKeyConstant         = syncConfigurationKeyConstant + ".require_clean"
	branchAliasManifestConfigKeyConstant      = branchAliasConfigurationKeyConstant + ".manifest"
	branchAliasRemoteConfigKeyConstant        = branchAliasConfigurationKeyConstant + ".remote"
	branchAliasPrimaryBranchConfigKeyConstant = branchAliasConfigurationKeyConstant + ".primary_branch"
	releaseRemoteConfigKeyConstant            = releaseConfigurationKeyConstant + ".remote"
	releaseMessageConfigKeyConstant           = releaseConfigurationKeyConstant + ".message"
	releaseDraftConfigKeyConstant             = releaseConfigurationKeyConstant + ".draft"
	releasePrereleaseConfigKeyConstant        = releaseConfigurationKeyConstant + ".prerelease"
	releasePublishConfigKeyConstant           = releaseConfigurationKeyConstant + ".publish"
	gitHubTokenConfigKeyConstant              = gitHubConfigurationKeyConstant + ".token"
	gitHubAPIBaseURLConfigKeyConstant         = gitHubConfigurationKeyConstant + ".api_base_url"
)

// Version is reported by --version and overridden at build time through -ldflags.
var Version = "dev"

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Branches     branches.ListConfiguration     `mapstructure:"branches"`
	Sync         branches.SyncConfiguration     `mapstructure:"sync"`
	BranchAlias  alias.CommandConfiguration     `mapstructure:"branch_alias"`
	Release      release.CommandConfiguration   `mapstructure:"release"`
	PullRequests repos.PullRequestConfiguration `mapstructure:"pr"`
	Repository   repos.RepositoryConfiguration  `mapstructure:"repo"`
	GitHub       ApplicationGitHubConfiguration `mapstructure:"github"`
}

// ApplicationGitHubConfiguration configures GitHub API access shared by release, pr and repo-create.
// An empty APIBaseURL targets github.com.
type ApplicationGitHubConfiguration struct {
	Token      string `mapstructure:"token"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	repositoryPathValue    string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(applicationVersionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.repositoryPathValue, repositoryFlagNameConstant, defaultRepositoryPathConstant, repositoryFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	branchesBuilder := branches.ListCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() branches.ListConfiguration {
			return application.configuration.Tools.Branches
		},
	}
	branchesCommand, branchesBuildError := branchesBuilder.Build()
	if branchesBuildError == nil {
		cobraCommand.AddCommand(branchesCommand)
	}

	syncBuilder := branches.SyncCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() branches.SyncConfiguration {
			return application.configuration.Tools.Sync
		},
	}
	syncCommand, syncBuildError := syncBuilder.Build()
	if syncBuildError == nil {
		cobraCommand.AddCommand(syncCommand)
	}

	aliasBuilder := alias.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.branchAliasConfiguration,
	}
	aliasCommand, aliasBuildError := aliasBuilder.Build()
	if aliasBuildError == nil {
		cobraCommand.AddCommand(aliasCommand)
	}

	releaseBuilder := release.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() release.CommandConfiguration {
			return application.configuration.Tools.Release
		},
		AliasConfigurationProvider: application.branchAliasConfiguration,
		GitHubOptionsProvider:      application.gitHubOptions,
	}
	releaseCommand, releaseBuildError := releaseBuilder.Build()
	if releaseBuildError == nil {
		cobraCommand.AddCommand(releaseCommand)
	}

	pullRequestBuilder := repos.CommandGroupBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repos.PullRequestConfiguration {
			return application.configuration.Tools.PullRequests
		},
		GitHubOptionsProvider: application.gitHubOptions,
	}
	pullRequestCommand, pullRequestBuildError := pullRequestBuilder.Build()
	if pullRequestBuildError == nil {
		cobraCommand.AddCommand(pullRequestCommand)
	}

	repositoryCreateBuilder := repos.RepositoryCreateCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repos.RepositoryConfiguration {
			return application.configuration.Tools.Repository
		},
		GitHubOptionsProvider: application.gitHubOptions,
	}
	repositoryCreateCommand, repositoryCreateBuildError := repositoryCreateBuilder.Build()
	if repositoryCreateBuildError == nil {
		cobraCommand.AddCommand(repositoryCreateCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	repositoryPath := strings.TrimSpace(application.repositoryPathValue)
	if len(repositoryPath) == 0 {
		repositoryPath = defaultRepositoryPathConstant
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationRepositoryFieldConstant, repositoryPath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, repositoryPath)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func defaultConfigurationValues() map[string]any {
	branchesDefaults := branches.DefaultListConfiguration()
	syncDefaults := branches.DefaultSyncConfiguration()
	aliasDefaults := alias.DefaultCommandConfiguration()
	releaseDefaults := release.DefaultCommandConfiguration()

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:           string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:          string(utils.LogFormatStructured),
		branchesRemoteConfigKeyConstant:           branchesDefaults.RemoteName,
		syncRemoteConfigKeyConstant:               syncDefaults.RemoteName,
		syncAllowPushConfigKeyConstant:            syncDefaults.AllowPush,
		syncRequireCleanConfigKeyConstant:         syncDefaults.RequireClean,
		branchAliasManifestConfigKeyConstant:      aliasDefaults.ManifestPath,
		branchAliasRemoteConfigKeyConstant:        aliasDefaults.RemoteName,
		branchAliasPrimaryBranchConfigKeyConstant: aliasDefaults.PrimaryBranch,
		releaseRemoteConfigKeyConstant:            releaseDefaults.RemoteName,
		releaseMessageConfigKeyConstant:           releaseDefaults.Message,
		releaseDraftConfigKeyConstant:             releaseDefaults.Draft,
		releasePrereleaseConfigKeyConstant:        releaseDefaults.Prerelease,
		releasePublishConfigKeyConstant:           releaseDefaults.Publish,
		gitHubTokenConfigKeyConstant:              "",
		gitHubAPIBaseURLConfigKeyConstant:         "",
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(toolsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	return defaultValues
}

func (application *Application) branchAliasConfiguration() alias.CommandConfiguration {
	return application.configuration.Tools.BranchAlias
}

func (application *Application) gitHubOptions() dependencies.GitHubAPIOptions {
	return dependencies.GitHubAPIOptions{
		Token:   strings.TrimSpace(application.configuration.Tools.GitHub.Token),
		BaseURL: strings.TrimSpace(application.configuration.Tools.GitHub.APIBaseURL),
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
