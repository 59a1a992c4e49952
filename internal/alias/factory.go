package alias

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hubkit/internal/gitconfig"
	"github.com/temirov/hubkit/internal/gitrepo"
	"github.com/temirov/hubkit/internal/prompt"
	"github.com/temirov/hubkit/internal/repos/shared"
)

const (
	defaultBranchLookupFailedLogMessageConstant = "default branch lookup through GitHub failed, using the current branch"
	logFieldRepositoryConstant                  = "repository"
)

// FactoryDependencies enumerates collaborators used to assemble a Resolver for a repository.
type FactoryDependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	GitHubResolver    shared.GitHubMetadataResolver
	ManifestReader    ManifestReader
	Prompter          prompt.Prompter
	Logger            *zap.Logger
}

// NewRepositoryResolver builds a Resolver for the repository at repositoryPath.
// The primary branch comes from configuration, then the GitHub default branch of the remote, then the current branch.
func NewRepositoryResolver(executionContext context.Context, dependencies FactoryDependencies, configuration CommandConfiguration, repositoryPath string) (*Resolver, error) {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	configStore, storeError := gitconfig.NewStore(dependencies.GitExecutor, repositoryPath)
	if storeError != nil {
		return nil, storeError
	}

	primaryBranch, primaryBranchError := detectPrimaryBranch(executionContext, dependencies, configuration, repositoryPath, logger)
	if primaryBranchError != nil {
		return nil, primaryBranchError
	}

	manifestReader := dependencies.ManifestReader
	if manifestReader == nil {
		manifestReader = ComposerManifestReader{}
	}

	return NewResolver(ResolverDependencies{
		ManifestReader: manifestReader,
		ConfigStore:    configStore,
		Prompter:       dependencies.Prompter,
		Logger:         logger,
	}, ResolverOptions{
		ManifestPath:  manifestLocation(repositoryPath, configuration.ManifestPath),
		PrimaryBranch: primaryBranch,
	})
}

func detectPrimaryBranch(executionContext context.Context, dependencies FactoryDependencies, configuration CommandConfiguration, repositoryPath string, logger *zap.Logger) (string, error) {
	if len(configuration.PrimaryBranch) > 0 {
		return configuration.PrimaryBranch, nil
	}

	if dependencies.RepositoryManager != nil && dependencies.GitHubResolver != nil {
		remoteName := configuration.RemoteName
		if len(remoteName) == 0 {
			remoteName = defaultRemoteNameConstant
		}
		if remoteURL, remoteError := dependencies.RepositoryManager.GetRemoteURL(executionContext, repositoryPath, remoteName); remoteError == nil {
			if parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL); parseError == nil {
				metadata, metadataError := dependencies.GitHubResolver.ResolveRepoMetadata(executionContext, parsedRemote.OwnerRepository())
				if metadataError == nil && len(strings.TrimSpace(metadata.DefaultBranch)) > 0 {
					return strings.TrimSpace(metadata.DefaultBranch), nil
				}
				logger.Debug(defaultBranchLookupFailedLogMessageConstant, zap.String(logFieldRepositoryConstant, parsedRemote.OwnerRepository()), zap.Error(metadataError))
			}
		}
	}

	if dependencies.RepositoryManager == nil {
		return "", ErrPrimaryBranchRequired
	}
	return dependencies.RepositoryManager.GetCurrentBranch(executionContext, repositoryPath)
}

func manifestLocation(repositoryPath string, manifestPath string) string {
	if len(manifestPath) == 0 {
		manifestPath = DefaultManifestFileName
	}
	if filepath.IsAbs(manifestPath) {
		return manifestPath
	}
	return filepath.Join(repositoryPath, manifestPath)
}
