package branches

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecideSync(testInstance *testing.T) {
	testCases := []struct {
		name           string
		status         SyncStatus
		allowPush      bool
		expectedAction SyncAction
		expectedError  error
	}{
		{name: "up_to_date", status: SyncStatusUpToDate, expectedAction: SyncActionNone},
		{name: "need_pull", status: SyncStatusNeedPull, expectedAction: SyncActionPull},
		{name: "need_pull_push_allowed", status: SyncStatusNeedPull, allowPush: true, expectedAction: SyncActionPull},
		{name: "need_push_allowed", status: SyncStatusNeedPush, allowPush: true, expectedAction: SyncActionPush},
		{name: "need_push_forbidden", status: SyncStatusNeedPush, expectedError: ErrSyncForbidden},
		{name: "diverged", status: SyncStatusDiverged, expectedError: ErrSyncDiverged},
		{name: "diverged_push_allowed", status: SyncStatusDiverged, allowPush: true, expectedError: ErrSyncDiverged},
		{name: "unknown", status: SyncStatusUnknown, expectedError: ErrSyncStatusUnknown},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			action, err := DecideSync(testCase.status, "1.x", testCase.allowPush)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, err, testCase.expectedError)
				require.Equal(testInstance, SyncActionNone, action)
				return
			}
			require.NoError(testInstance, err)
			require.Equal(testInstance, testCase.expectedAction, action)
		})
	}
}

func TestSyncErrorsNameTheBranch(testInstance *testing.T) {
	_, forbiddenError := DecideSync(SyncStatusNeedPush, "2.x", false)
	var typedForbidden SyncForbiddenError
	require.True(testInstance, errors.As(forbiddenError, &typedForbidden))
	require.Equal(testInstance, "2.x", typedForbidden.BranchName)
	require.Contains(testInstance, forbiddenError.Error(), `"2.x"`)
	require.Contains(testInstance, forbiddenError.Error(), "pushing is prohibited")
	require.False(testInstance, errors.Is(forbiddenError, ErrSyncDiverged))

	_, divergedError := DecideSync(SyncStatusDiverged, "2.x", true)
	require.Contains(testInstance, divergedError.Error(), `"2.x"`)
	require.Contains(testInstance, divergedError.Error(), "resolve the conflict manually")
	require.False(testInstance, errors.Is(divergedError, ErrSyncForbidden))
}

func TestSyncStatusAndActionNames(testInstance *testing.T) {
	require.Equal(testInstance, "unknown", SyncStatusUnknown.String())
	require.Equal(testInstance, "up-to-date", SyncStatusUpToDate.String())
	require.Equal(testInstance, "need-pull", SyncStatusNeedPull.String())
	require.Equal(testInstance, "need-push", SyncStatusNeedPush.String())
	require.Equal(testInstance, "diverged", SyncStatusDiverged.String())
	require.Equal(testInstance, "none", SyncActionNone.String())
	require.Equal(testInstance, "pull", SyncActionPull.String())
	require.Equal(testInstance, "push", SyncActionPush.String())
}
