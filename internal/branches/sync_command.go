package branches

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hubkit/internal/repos/dependencies"
	"github.com/temirov/hubkit/internal/repos/shared"
	"github.com/temirov/hubkit/internal/ui"
	"github.com/temirov/hubkit/internal/utils"
)

const (
	syncCommandUseConstant              = "branch-sync [branch]"
	syncCommandShortDescriptionConstant = "Bring a local branch in line with its remote"
	syncCommandLongDescriptionConstant  = "branch-sync fetches the remote, compares the branch with its remote counterpart and then pulls, pushes (only with --allow-push) or stops when the histories have diverged. The branch defaults to the current branch."
	syncCommandExampleConstant          = "hubkit branch-sync 1.x --remote upstream --allow-push"
	flagRemoteBranchNameConstant        = "remote-branch"
	flagRemoteBranchDescriptionConstant = "Remote branch to compare against (defaults to the local branch name)"
	flagAllowPushNameConstant           = "allow-push"
	flagAllowPushDescriptionConstant    = "Push the branch when it is ahead of the remote"
	flagSyncRemoteDescriptionConstant   = "Remote to synchronize with"
	branchNotFoundMessageConstant       = "branch not found"
	branchMissingTemplateConstant       = "%w: %q exists neither locally nor on %s"
	upToDateLabelConstant               = "UP TO DATE"
	pulledLabelConstant                 = "PULLED"
	pushedLabelConstant                 = "PUSHED"
	checkedOutLabelConstant             = "CHECKED OUT"
	localRemoteDetailTemplateConstant   = "%s <-> %s/%s"
	pullDetailTemplateConstant          = "%s/%s -> %s"
	pushDetailTemplateConstant          = "%s -> %s/%s"
	checkoutDetailTemplateConstant      = "%s tracking %s/%s"
)

// ErrBranchNotFound indicates the branch to synchronize does not exist anywhere.
var ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)

// SyncCommandBuilder assembles the branch-sync command.
type SyncCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() SyncConfiguration
}

// Build constructs the branch-sync command.
func (builder *SyncCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     syncCommandUseConstant,
		Short:   syncCommandShortDescriptionConstant,
		Long:    syncCommandLongDescriptionConstant,
		Example: syncCommandExampleConstant,
		Args:    cobra.MaximumNArgs(1),
		RunE:    builder.run,
	}

	command.Flags().String(flagRemoteNameConstant, "", flagSyncRemoteDescriptionConstant)
	command.Flags().String(flagRemoteBranchNameConstant, "", flagRemoteBranchDescriptionConstant)
	command.Flags().Bool(flagAllowPushNameConstant, false, flagAllowPushDescriptionConstant)

	return command, nil
}

func (builder *SyncCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := DefaultSyncConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveHumanReadable(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return executorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(ServiceDependencies{GitExecutor: gitExecutor, RepositoryManager: repositoryManager})
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	repositoryPath := utils.NewCommandContextAccessor().RepositoryPath(executionContext)

	localBranch := ""
	if len(arguments) > 0 {
		localBranch = arguments[0]
	}
	localBranch = strings.TrimSpace(localBranch)
	if len(localBranch) == 0 {
		currentBranch, currentBranchError := repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
		if currentBranchError != nil {
			return currentBranchError
		}
		localBranch = strings.TrimSpace(currentBranch)
	}

	remoteFlagValue, _ := command.Flags().GetString(flagRemoteNameConstant)
	remoteName := firstNonEmpty(remoteFlagValue, configuration.RemoteName, defaultRemoteNameConstant)
	remoteBranchFlagValue, _ := command.Flags().GetString(flagRemoteBranchNameConstant)
	remoteBranch := firstNonEmpty(remoteBranchFlagValue, localBranch)

	allowPush := configuration.AllowPush
	if command.Flags().Changed(flagAllowPushNameConstant) {
		allowPush, _ = command.Flags().GetBool(flagAllowPushNameConstant)
	}

	styles := ui.NewStyles(command.OutOrStdout())

	if fetchError := service.Fetch(executionContext, repositoryPath, remoteName); fetchError != nil {
		return fetchError
	}

	localExists, localLookupError := service.BranchExists(executionContext, repositoryPath, localBranch)
	if localLookupError != nil {
		return localLookupError
	}
	if !localExists {
		remoteExists, remoteLookupError := service.RemoteBranchExists(executionContext, repositoryPath, remoteName, remoteBranch)
		if remoteLookupError != nil {
			return remoteLookupError
		}
		if !remoteExists {
			return fmt.Errorf(branchMissingTemplateConstant, ErrBranchNotFound, localBranch, remoteName)
		}
		if checkoutError := service.CheckoutRemoteBranch(executionContext, repositoryPath, remoteName, remoteBranch, localBranch); checkoutError != nil {
			return checkoutError
		}
		styles.Success(checkedOutLabelConstant, fmt.Sprintf(checkoutDetailTemplateConstant, localBranch, remoteName, remoteBranch))
		return nil
	}

	result, syncError := service.EnsureBranchInSync(executionContext, SyncOptions{
		RepositoryPath: repositoryPath,
		RemoteName:     remoteName,
		LocalBranch:    localBranch,
		RemoteBranch:   remoteBranch,
		AllowPush:      allowPush,
		RequireClean:   configuration.RequireClean,
	})
	if syncError != nil {
		return syncError
	}

	switch result.Action {
	case SyncActionPull:
		styles.Success(pulledLabelConstant, fmt.Sprintf(pullDetailTemplateConstant, result.RemoteName, result.RemoteBranch, result.LocalBranch))
	case SyncActionPush:
		styles.Success(pushedLabelConstant, fmt.Sprintf(pushDetailTemplateConstant, result.LocalBranch, result.RemoteName, result.RemoteBranch))
	default:
		styles.Notice(upToDateLabelConstant, fmt.Sprintf(localRemoteDetailTemplateConstant, result.LocalBranch, result.RemoteName, result.RemoteBranch))
	}
	return nil
}
