package releases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/temirov/hubkit/internal/alias"
	"github.com/temirov/hubkit/internal/branches"
	"github.com/temirov/hubkit/internal/execshell"
	"github.com/temirov/hubkit/internal/githubapi"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	versionRequiredMessageConstant        = "release version must be provided"
	gitExecutorMissingMessageConstant     = "git executor not configured"
	branchUnavailableMessageConstant      = "release branch could not be determined"
	branchIncompatibleMessageConstant     = "branch is not compatible with the release version"
	aliasResolverMissingMessageConstant   = "branch alias resolver not configured"
	invalidVersionTemplateConstant        = "invalid release version %q: %w"
	branchIncompatibleTemplateConstant    = "version %s cannot be released from branch %q: %s"
	versionBranchReasonTemplateConstant   = "version branch %s expects %s releases"
	aliasReasonTemplateConstant           = "branch alias %s expects %s releases"
	currentBranchFailureTemplateConstant  = "failed to determine the current branch: %w"
	aliasFailureTemplateConstant          = "failed to resolve the branch alias of %q: %w"
	syncFailureTemplateConstant           = "branch %q is not ready for release: %w"
	tagFailureTemplateConstant            = "failed to create tag %s: %w"
	pushFailureTemplateConstant           = "failed to push tag %s to %s: %w"
	publishFailureTemplateConstant        = "tag %s was pushed but the GitHub release could not be created: %w"
	defaultMessageTemplateConstant        = "Release %s"
	tagNameTemplateConstant               = "v%s"
	expectedAliasTemplateConstant         = "%d.%d-dev"
	expectedVersionLineTemplateConstant   = "%d.%d.*"
	expectedWildcardLineTemplateConstant  = "%d.*"
	versionPrefixConstant                 = "v"
	defaultRemoteNameConstant             = shared.OriginRemoteNameConstant
	gitTagSubcommandConstant              = "tag"
	gitAnnotateFlagConstant               = "-a"
	gitMessageFlagConstant                = "-m"
	gitPushSubcommandConstant             = "push"
	aliasDevSuffixConstant                = "-dev"
	versionLineSuffixConstant             = ".*"
)

var (
	// ErrRepositoryPathRequired indicates the repository path option was empty.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrVersionRequired indicates the version option was empty.
	ErrVersionRequired = errors.New(versionRequiredMessageConstant)
	// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	// ErrBranchUnavailable indicates neither an explicit branch nor a repository manager was available.
	ErrBranchUnavailable = errors.New(branchUnavailableMessageConstant)
	// ErrBranchIncompatible matches BranchIncompatibleError.
	ErrBranchIncompatible = errors.New(branchIncompatibleMessageConstant)
	// ErrAliasResolverNotConfigured indicates a non-version branch was used without an alias resolver.
	ErrAliasResolverNotConfigured = errors.New(aliasResolverMissingMessageConstant)
)

// BranchIncompatibleError reports a release version that does not belong on the branch it was requested from.
type BranchIncompatibleError struct {
	Version    string
	BranchName string
	Reason     string
}

// Error describes the mismatch.
func (incompatibleError BranchIncompatibleError) Error() string {
	return fmt.Sprintf(branchIncompatibleTemplateConstant, incompatibleError.Version, incompatibleError.BranchName, incompatibleError.Reason)
}

// Is matches ErrBranchIncompatible.
func (incompatibleError BranchIncompatibleError) Is(target error) bool {
	return target == ErrBranchIncompatible
}

// BranchSynchronizer brings a branch level with its remote.
type BranchSynchronizer interface {
	EnsureBranchInSync(executionContext context.Context, options branches.SyncOptions) (branches.SyncResult, error)
}

// AliasResolver yields the development alias of the release branch.
type AliasResolver interface {
	Resolve(executionContext context.Context) (alias.Resolution, error)
}

// Publisher creates a GitHub release for a pushed tag.
type Publisher interface {
	CreateRelease(executionContext context.Context, request githubapi.ReleaseRequest) (githubapi.Release, error)
}

// ServiceDependencies enumerates collaborators used by the release service.
// Only GitExecutor is mandatory; the others enable branch detection, alias checks, synchronization and publishing.
type ServiceDependencies struct {
	GitExecutor        shared.GitExecutor
	RepositoryManager  shared.GitRepositoryManager
	BranchSynchronizer BranchSynchronizer
	AliasResolver      AliasResolver
	Publisher          Publisher
}

// Options configure a release.
// Branch defaults to the current branch. Owner and Repository identify the GitHub repository for publishing.
type Options struct {
	RepositoryPath string
	Version        string
	Message        string
	RemoteName     string
	Branch         string
	Owner          string
	Repository     string
	Draft          bool
	Prerelease     bool
	DryRun         bool
}

// Result summarizes a release.
type Result struct {
	RepositoryPath string
	TagName        string
	Branch         string
	ReleaseURL     string
	Published      bool
}

// Service orchestrates release validation, tagging and publishing.
type Service struct {
	executor           shared.GitExecutor
	repositoryManager  shared.GitRepositoryManager
	branchSynchronizer BranchSynchronizer
	aliasResolver      AliasResolver
	publisher          Publisher
}

// NewService constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{
		executor:           dependencies.GitExecutor,
		repositoryManager:  dependencies.RepositoryManager,
		branchSynchronizer: dependencies.BranchSynchronizer,
		aliasResolver:      dependencies.AliasResolver,
		publisher:          dependencies.Publisher,
	}, nil
}

// ParseVersion validates a release version such as 1.2.3 or v1.2.3-rc.1.
func ParseVersion(value string) (*semver.Version, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return nil, ErrVersionRequired
	}
	version, parseError := semver.StrictNewVersion(strings.TrimPrefix(trimmedValue, versionPrefixConstant))
	if parseError != nil {
		return nil, fmt.Errorf(invalidVersionTemplateConstant, trimmedValue, parseError)
	}
	return version, nil
}

// Release validates the version against the branch, synchronizes the branch, pushes an annotated tag and publishes it.
func (service *Service) Release(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	version, versionError := ParseVersion(options.Version)
	if versionError != nil {
		return Result{}, versionError
	}
	tagName := fmt.Sprintf(tagNameTemplateConstant, version.String())

	branchName, branchError := service.releaseBranch(executionContext, repositoryPath, options.Branch)
	if branchError != nil {
		return Result{}, branchError
	}

	if compatibilityError := service.verifyBranchCompatibility(executionContext, version, branchName); compatibilityError != nil {
		return Result{}, compatibilityError
	}

	result := Result{RepositoryPath: repositoryPath, TagName: tagName, Branch: branchName}
	if options.DryRun {
		return result, nil
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}

	if service.branchSynchronizer != nil {
		_, syncError := service.branchSynchronizer.EnsureBranchInSync(executionContext, branches.SyncOptions{
			RepositoryPath: repositoryPath,
			RemoteName:     remoteName,
			LocalBranch:    branchName,
			AllowPush:      false,
			RequireClean:   true,
		})
		if syncError != nil {
			return Result{}, fmt.Errorf(syncFailureTemplateConstant, branchName, syncError)
		}
	}

	message := strings.TrimSpace(options.Message)
	if len(message) == 0 {
		message = fmt.Sprintf(defaultMessageTemplateConstant, tagName)
	}

	tagDetails := execshell.CommandDetails{
		Arguments:        []string{gitTagSubcommandConstant, gitAnnotateFlagConstant, tagName, gitMessageFlagConstant, message},
		WorkingDirectory: repositoryPath,
	}
	if _, tagError := service.executor.ExecuteGit(executionContext, tagDetails); tagError != nil {
		return Result{}, fmt.Errorf(tagFailureTemplateConstant, tagName, tagError)
	}

	pushDetails := execshell.CommandDetails{
		Arguments:            []string{gitPushSubcommandConstant, remoteName, tagName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	}
	if _, pushError := service.executor.ExecuteGit(executionContext, pushDetails); pushError != nil {
		return Result{}, fmt.Errorf(pushFailureTemplateConstant, tagName, remoteName, pushError)
	}

	if service.publisher == nil || len(options.Owner) == 0 || len(options.Repository) == 0 {
		return result, nil
	}

	release, publishError := service.publisher.CreateRelease(executionContext, githubapi.ReleaseRequest{
		Owner:      options.Owner,
		Repository: options.Repository,
		TagName:    tagName,
		Name:       tagName,
		Body:       message,
		Draft:      options.Draft,
		Prerelease: options.Prerelease || len(version.Prerelease()) > 0,
	})
	if publishError != nil {
		return result, fmt.Errorf(publishFailureTemplateConstant, tagName, publishError)
	}

	result.ReleaseURL = release.HTMLURL
	result.Published = true
	return result, nil
}

func (service *Service) releaseBranch(executionContext context.Context, repositoryPath string, requestedBranch string) (string, error) {
	trimmedBranch := strings.TrimSpace(requestedBranch)
	if len(trimmedBranch) > 0 {
		return trimmedBranch, nil
	}
	if service.repositoryManager == nil {
		return "", ErrBranchUnavailable
	}
	currentBranch, currentBranchError := service.repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	if currentBranchError != nil {
		return "", fmt.Errorf(currentBranchFailureTemplateConstant, currentBranchError)
	}
	return currentBranch, nil
}

func (service *Service) verifyBranchCompatibility(executionContext context.Context, version *semver.Version, branchName string) error {
	if identity, isVersionBranch := branches.ParseVersionIdentity(branchName); isVersionBranch {
		if identity.Covers(version) {
			return nil
		}
		expectedLine := fmt.Sprintf(expectedVersionLineTemplateConstant, identity.Major, identity.Minor)
		if identity.Wildcard {
			expectedLine = fmt.Sprintf(expectedWildcardLineTemplateConstant, identity.Major)
		}
		return BranchIncompatibleError{
			Version:    version.String(),
			BranchName: branchName,
			Reason:     fmt.Sprintf(versionBranchReasonTemplateConstant, identity, expectedLine),
		}
	}

	if service.aliasResolver == nil {
		return ErrAliasResolverNotConfigured
	}
	resolution, resolveError := service.aliasResolver.Resolve(executionContext)
	if resolveError != nil {
		return fmt.Errorf(aliasFailureTemplateConstant, branchName, resolveError)
	}

	expectedAlias := fmt.Sprintf(expectedAliasTemplateConstant, version.Major(), version.Minor())
	normalizedAlias, normalizeError := alias.NormalizeAlias(resolution.Alias)
	if normalizeError == nil && normalizedAlias == expectedAlias {
		return nil
	}
	return BranchIncompatibleError{
		Version:    version.String(),
		BranchName: branchName,
		Reason:     fmt.Sprintf(aliasReasonTemplateConstant, resolution.Alias, aliasLine(normalizedAlias, resolution.Alias)),
	}
}

func aliasLine(normalizedAlias string, rawAlias string) string {
	line := normalizedAlias
	if len(line) == 0 {
		line = rawAlias
	}
	return strings.TrimSuffix(line, aliasDevSuffixConstant) + versionLineSuffixConstant
}
