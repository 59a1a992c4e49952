package repos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigurationValuesUseRootKey(testInstance *testing.T) {
	values := DefaultConfigurationValues("tools")
	require.Equal(testInstance, "origin", values["tools.pr.remote"])
	require.Equal(testInstance, "open", values["tools.pr.state"])
	require.Equal(testInstance, 30, values["tools.pr.limit"])
	require.Equal(testInstance, "merge", values["tools.pr.merge_method"])
	require.Equal(testInstance, true, values["tools.repo.private"])
	require.Equal(testInstance, "ssh", values["tools.repo.protocol"])
}

func TestPullRequestConfigurationSanitizeRestoresDefaults(testInstance *testing.T) {
	sanitized := PullRequestConfiguration{RemoteName: "  ", State: " Merged ", Limit: -1, MergeMethod: " SQUASH ", BaseBranch: " 1.x "}.Sanitize()
	require.Equal(testInstance, PullRequestConfiguration{RemoteName: "origin", BaseBranch: "1.x", State: "merged", Limit: 30, MergeMethod: "squash"}, sanitized)
}

func TestSplitRepositoryName(testInstance *testing.T) {
	owner, name, splitError := splitRepositoryName(" acme/widgets ")
	require.NoError(testInstance, splitError)
	require.Equal(testInstance, "acme", owner)
	require.Equal(testInstance, "widgets", name)

	owner, name, splitError = splitRepositoryName("widgets")
	require.NoError(testInstance, splitError)
	require.Empty(testInstance, owner)
	require.Equal(testInstance, "widgets", name)

	_, _, splitError = splitRepositoryName("")
	require.Error(testInstance, splitError)
}
