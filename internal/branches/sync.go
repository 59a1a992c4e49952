package branches

import (
	"errors"
	"fmt"
)

const (
	syncForbiddenMessageConstant           = "branch synchronization requires a push"
	syncDivergedMessageConstant            = "branch has diverged from its remote"
	syncStatusUnknownMessageConstant       = "branch synchronization status unknown"
	syncForbiddenErrorTemplateConstant     = "branch %q is ahead of its remote and pushing is prohibited; push it manually or allow pushing"
	syncDivergedErrorTemplateConstant      = "branch %q has diverged from its remote; resolve the conflict manually by rebasing or merging, then try again"
	syncStatusUnknownErrorTemplateConstant = "branch %q: %w"
	syncStatusUnknownNameConstant          = "unknown"
	syncStatusUpToDateNameConstant         = "up-to-date"
	syncStatusNeedPullNameConstant         = "need-pull"
	syncStatusNeedPushNameConstant         = "need-push"
	syncStatusDivergedNameConstant         = "diverged"
	syncActionNoneNameConstant             = "none"
	syncActionPullNameConstant             = "pull"
	syncActionPushNameConstant             = "push"
)

var (
	// ErrSyncForbidden matches SyncForbiddenError.
	ErrSyncForbidden = errors.New(syncForbiddenMessageConstant)
	// ErrSyncDiverged matches SyncDivergedError.
	ErrSyncDiverged = errors.New(syncDivergedMessageConstant)
	// ErrSyncStatusUnknown indicates a decision was requested without a status.
	ErrSyncStatusUnknown = errors.New(syncStatusUnknownMessageConstant)
)

// SyncStatus compares a local branch with its remote counterpart.
type SyncStatus int

// Sync statuses. The zero value means the status has not been determined.
const (
	SyncStatusUnknown SyncStatus = iota
	SyncStatusUpToDate
	SyncStatusNeedPull
	SyncStatusNeedPush
	SyncStatusDiverged
)

// String names the status.
func (status SyncStatus) String() string {
	switch status {
	case SyncStatusUpToDate:
		return syncStatusUpToDateNameConstant
	case SyncStatusNeedPull:
		return syncStatusNeedPullNameConstant
	case SyncStatusNeedPush:
		return syncStatusNeedPushNameConstant
	case SyncStatusDiverged:
		return syncStatusDivergedNameConstant
	default:
		return syncStatusUnknownNameConstant
	}
}

// SyncAction is the single git operation chosen for a status.
type SyncAction int

// Sync actions.
const (
	SyncActionNone SyncAction = iota
	SyncActionPull
	SyncActionPush
)

// String names the action.
func (action SyncAction) String() string {
	switch action {
	case SyncActionPull:
		return syncActionPullNameConstant
	case SyncActionPush:
		return syncActionPushNameConstant
	default:
		return syncActionNoneNameConstant
	}
}

// SyncForbiddenError reports a branch that needs a push when pushing is not allowed.
type SyncForbiddenError struct {
	BranchName string
}

// Error describes the forbidden push.
func (forbiddenError SyncForbiddenError) Error() string {
	return fmt.Sprintf(syncForbiddenErrorTemplateConstant, forbiddenError.BranchName)
}

// Is matches ErrSyncForbidden.
func (forbiddenError SyncForbiddenError) Is(target error) bool {
	return target == ErrSyncForbidden
}

// SyncDivergedError reports a branch whose history conflicts with the remote.
type SyncDivergedError struct {
	BranchName string
}

// Error describes the divergence and asks for manual resolution.
func (divergedError SyncDivergedError) Error() string {
	return fmt.Sprintf(syncDivergedErrorTemplateConstant, divergedError.BranchName)
}

// Is matches ErrSyncDiverged.
func (divergedError SyncDivergedError) Is(target error) bool {
	return target == ErrSyncDiverged
}

// DecideSync picks at most one of pull or push for the branch.
func DecideSync(status SyncStatus, branchName string, allowPush bool) (SyncAction, error) {
	switch status {
	case SyncStatusUpToDate:
		return SyncActionNone, nil
	case SyncStatusNeedPull:
		return SyncActionPull, nil
	case SyncStatusNeedPush:
		if !allowPush {
			return SyncActionNone, SyncForbiddenError{BranchName: branchName}
		}
		return SyncActionPush, nil
	case SyncStatusDiverged:
		return SyncActionNone, SyncDivergedError{BranchName: branchName}
	default:
		return SyncActionNone, fmt.Errorf(syncStatusUnknownErrorTemplateConstant, branchName, ErrSyncStatusUnknown)
	}
}
