package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/hubkit/cmd/cli"
	"github.com/temirov/hubkit/cmd/cli/repos"
	"github.com/temirov/hubkit/cmd/cli/repos/release"
	"github.com/temirov/hubkit/internal/alias"
	"github.com/temirov/hubkit/internal/branches"
)

const (
	embeddedCommonSectionConstant = "common"
	embeddedToolsSectionConstant  = "tools"
)

var embeddedToolSections = []string{
	"branches",
	"sync",
	"branch_alias",
	"release",
	"pr",
	"repo",
	"github",
}

func TestEmbeddedDefaultConfigurationIsValidYAML(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &document))
	require.Contains(testInstance, document, embeddedCommonSectionConstant)
	require.Contains(testInstance, document, embeddedToolsSectionConstant)

	toolsSection, isMap := document[embeddedToolsSectionConstant].(map[string]any)
	require.True(testInstance, isMap)
	for _, sectionName := range embeddedToolSections {
		require.Contains(testInstance, toolsSection, sectionName)
	}
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)

	testCases := []struct {
		name     string
		actual   any
		expected any
	}{
		{name: "Branches", actual: configuration.Tools.Branches.Sanitize(), expected: branches.DefaultListConfiguration()},
		{name: "Sync", actual: configuration.Tools.Sync.Sanitize(), expected: branches.DefaultSyncConfiguration()},
		{name: "BranchAlias", actual: configuration.Tools.BranchAlias.Sanitize(), expected: alias.DefaultCommandConfiguration()},
		{name: "Release", actual: configuration.Tools.Release.Sanitize(), expected: release.DefaultCommandConfiguration()},
		{name: "PullRequests", actual: configuration.Tools.PullRequests.Sanitize(), expected: repos.DefaultToolsConfiguration().PullRequests},
		{name: "Repository", actual: configuration.Tools.Repository.Sanitize(), expected: repos.DefaultToolsConfiguration().Repository},
		{name: "GitHub", actual: configuration.Tools.GitHub, expected: cli.ApplicationGitHubConfiguration{}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, testCase.actual)
		})
	}
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}
