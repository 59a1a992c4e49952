package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hubkit/internal/utils"
)

func TestCommandContextAccessorRoundTripsValues(t *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/hubkit/config.yaml")
	executionContext = accessor.WithRepositoryPath(executionContext, "  /src/project  ")

	configurationFilePath, found := accessor.ConfigurationFilePath(executionContext)
	require.True(t, found)
	require.Equal(t, "/etc/hubkit/config.yaml", configurationFilePath)
	require.Equal(t, "/src/project", accessor.RepositoryPath(executionContext))
}

func TestCommandContextAccessorDefaultsRepositoryPath(t *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	require.Equal(t, ".", accessor.RepositoryPath(context.Background()))
	require.Equal(t, ".", accessor.RepositoryPath(accessor.WithRepositoryPath(context.Background(), "   ")))

	_, found := accessor.ConfigurationFilePath(context.Background())
	require.False(t, found)
}
