package alias

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/gitconfig"
	"github.com/temirov/hubkit/internal/prompt"
)

const (
	manifestAliasKeyTemplateConstant      = "dev-%s"
	gitConfigAliasKeyTemplateConstant     = "branch.%s.alias"
	promptQuestionTemplateConstant        = "Development alias for branch %q (for example 1.0):"
	promptHelpMessageConstant             = "Enter <major>.<minor> such as 1.0 or v2.3; -dev is appended automatically."
	aliasUnavailableMessageConstant       = "branch alias is not configured and no interactive prompt is available"
	primaryBranchRequiredMessageConstant  = "primary branch must be provided"
	configStoreMissingMessageConstant     = "git config store not configured"
	manifestReaderMissingMessageConstant  = "manifest reader not configured"
	gitConfigReadFailureTemplateConstant  = "failed to read branch alias from git config: %w"
	gitConfigWriteFailureTemplateConstant = "failed to store branch alias in git config: %w"
	promptFailureTemplateConstant         = "failed to ask for branch alias: %w"
	manifestUnusableLogMessageConstant    = "manifest branch alias unusable, falling back to git config"
	aliasResolvedLogMessageConstant       = "branch alias resolved"
	logFieldManifestConstant              = "manifest"
	logFieldPrimaryBranchConstant         = "primary_branch"
	logFieldAliasConstant                 = "alias"
	logFieldSourceConstant                = "source"
	sourceManifestNameConstant            = "composer.json"
	sourceGitConfigNameConstant           = "git config"
	sourcePromptNameConstant              = "prompt"
	sourceExplicitNameConstant            = "command line"
)

var (
	// ErrAliasUnavailable indicates neither the manifest nor git config has an alias and nobody can be asked.
	ErrAliasUnavailable = errors.New(aliasUnavailableMessageConstant)
	// ErrPrimaryBranchRequired indicates the resolver was constructed without a primary branch.
	ErrPrimaryBranchRequired = errors.New(primaryBranchRequiredMessageConstant)
	// ErrConfigStoreNotConfigured indicates the git config store dependency was missing.
	ErrConfigStoreNotConfigured = errors.New(configStoreMissingMessageConstant)
	// ErrManifestReaderNotConfigured indicates the manifest reader dependency was missing.
	ErrManifestReaderNotConfigured = errors.New(manifestReaderMissingMessageConstant)
)

// Source names where a resolved alias came from.
type Source int

// Alias sources.
const (
	SourceManifest Source = iota + 1
	SourceGitConfig
	SourcePrompt
	SourceExplicit
)

// String names the source for display.
func (source Source) String() string {
	switch source {
	case SourceManifest:
		return sourceManifestNameConstant
	case SourceGitConfig:
		return sourceGitConfigNameConstant
	case SourcePrompt:
		return sourcePromptNameConstant
	case SourceExplicit:
		return sourceExplicitNameConstant
	default:
		return ""
	}
}

// Resolution is a resolved alias together with its provenance.
type Resolution struct {
	Alias         string
	Source        Source
	PrimaryBranch string
}

// ConfigStore reads and writes git configuration keys.
type ConfigStore interface {
	Get(executionContext context.Context, key string, scope gitconfig.Scope) (string, error)
	Set(executionContext context.Context, key string, value string, scope gitconfig.Scope, overwrite bool) error
}

// ResolverDependencies enumerates collaborators used by the resolver.
// A nil Prompter makes the session non-interactive; a nil Logger discards logs.
type ResolverDependencies struct {
	ManifestReader ManifestReader
	ConfigStore    ConfigStore
	Prompter       prompt.Prompter
	Logger         *zap.Logger
}

// ResolverOptions identify the project whose alias is resolved.
type ResolverOptions struct {
	ManifestPath  string
	PrimaryBranch string
}

// Resolver determines the development alias of the primary branch.
type Resolver struct {
	manifestReader ManifestReader
	configStore    ConfigStore
	prompter       prompt.Prompter
	logger         *zap.Logger
	manifestPath   string
	primaryBranch  string
}

// NewResolver constructs a Resolver.
func NewResolver(dependencies ResolverDependencies, options ResolverOptions) (*Resolver, error) {
	if dependencies.ManifestReader == nil {
		return nil, ErrManifestReaderNotConfigured
	}
	if dependencies.ConfigStore == nil {
		return nil, ErrConfigStoreNotConfigured
	}
	primaryBranch := strings.TrimSpace(options.PrimaryBranch)
	if len(primaryBranch) == 0 {
		return nil, ErrPrimaryBranchRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		manifestReader: dependencies.ManifestReader,
		configStore:    dependencies.ConfigStore,
		prompter:       dependencies.Prompter,
		logger:         logger,
		manifestPath:   strings.TrimSpace(options.ManifestPath),
		primaryBranch:  primaryBranch,
	}, nil
}

// Resolve returns the alias from the manifest, then git config, then the user.
// A prompted alias is persisted to git config before it is returned.
func (resolver *Resolver) Resolve(executionContext context.Context) (Resolution, error) {
	if manifestAlias, found := resolver.manifestAlias(); found {
		return resolver.resolved(manifestAlias, SourceManifest), nil
	}

	configuredAlias, readError := resolver.configStore.Get(executionContext, resolver.gitConfigKey(), gitconfig.ScopeAny)
	if readError != nil {
		return Resolution{}, fmt.Errorf(gitConfigReadFailureTemplateConstant, readError)
	}
	if trimmedAlias := strings.TrimSpace(configuredAlias); len(trimmedAlias) > 0 {
		return resolver.resolved(trimmedAlias, SourceGitConfig), nil
	}

	if resolver.prompter == nil {
		return Resolution{}, ErrAliasUnavailable
	}

	answer, promptError := resolver.prompter.Ask(
		executionContext,
		fmt.Sprintf(promptQuestionTemplateConstant, resolver.primaryBranch),
		promptHelpMessageConstant,
		func(value string) error {
			_, parseError := ParseAliasInput(value)
			return parseError
		},
	)
	if promptError != nil {
		return Resolution{}, fmt.Errorf(promptFailureTemplateConstant, promptError)
	}

	promptedAlias, parseError := ParseAliasInput(answer)
	if parseError != nil {
		return Resolution{}, parseError
	}
	if persistError := resolver.persist(executionContext, promptedAlias); persistError != nil {
		return Resolution{}, persistError
	}
	return resolver.resolved(promptedAlias, SourcePrompt), nil
}

// Set validates value, stores it as the alias in git config and returns the stored form.
func (resolver *Resolver) Set(executionContext context.Context, value string) (Resolution, error) {
	normalizedAlias, formatError := NormalizeAlias(value)
	if formatError != nil {
		return Resolution{}, formatError
	}
	if persistError := resolver.persist(executionContext, normalizedAlias); persistError != nil {
		return Resolution{}, persistError
	}
	return resolver.resolved(normalizedAlias, SourceExplicit), nil
}

func (resolver *Resolver) manifestAlias() (string, bool) {
	if len(resolver.manifestPath) == 0 {
		return "", false
	}

	branchAliases, readError := resolver.manifestReader.ReadBranchAliases(resolver.manifestPath)
	if readError != nil {
		resolver.logger.Debug(manifestUnusableLogMessageConstant, zap.String(logFieldManifestConstant, resolver.manifestPath), zap.Error(readError))
		return "", false
	}

	rawAlias, present := branchAliases[fmt.Sprintf(manifestAliasKeyTemplateConstant, resolver.primaryBranch)]
	if !present {
		return "", false
	}

	normalizedAlias, formatError := NormalizeManifestAlias(rawAlias)
	if formatError != nil {
		resolver.logger.Debug(manifestUnusableLogMessageConstant, zap.String(logFieldManifestConstant, resolver.manifestPath), zap.Error(formatError))
		return "", false
	}
	return normalizedAlias, true
}

func (resolver *Resolver) persist(executionContext context.Context, alias string) error {
	if writeError := resolver.configStore.Set(executionContext, resolver.gitConfigKey(), alias, gitconfig.ScopeLocal, true); writeError != nil {
		return fmt.Errorf(gitConfigWriteFailureTemplateConstant, writeError)
	}
	return nil
}

func (resolver *Resolver) gitConfigKey() string {
	return fmt.Sprintf(gitConfigAliasKeyTemplateConstant, resolver.primaryBranch)
}

func (resolver *Resolver) resolved(alias string, source Source) Resolution {
	resolver.logger.Debug(aliasResolvedLogMessageConstant,
		zap.String(logFieldPrimaryBranchConstant, resolver.primaryBranch),
		zap.String(logFieldAliasConstant, alias),
		zap.String(logFieldSourceConstant, source.String()),
	)
	return Resolution{Alias: alias, Source: source, PrimaryBranch: resolver.primaryBranch}
}
