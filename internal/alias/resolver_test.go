package alias

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/hubkit/internal/gitconfig"
	"github.com/temirov/hubkit/internal/prompt"
)

const testPrimaryBranchConstant = "master"

type stubManifestReader struct {
	branchAliases map[string]string
	err           error
	requestedPath string
}

func (reader *stubManifestReader) ReadBranchAliases(path string) (map[string]string, error) {
	reader.requestedPath = path
	return reader.branchAliases, reader.err
}

type recordedWrite struct {
	key       string
	value     string
	scope     gitconfig.Scope
	overwrite bool
}

type recordingConfigStore struct {
	values   map[string]string
	reads    []string
	writes   []recordedWrite
	getError error
}

func (store *recordingConfigStore) Get(_ context.Context, key string, _ gitconfig.Scope) (string, error) {
	store.reads = append(store.reads, key)
	return store.values[key], store.getError
}

func (store *recordingConfigStore) Set(_ context.Context, key string, value string, scope gitconfig.Scope, overwrite bool) error {
	store.writes = append(store.writes, recordedWrite{key: key, value: value, scope: scope, overwrite: overwrite})
	return nil
}

func newTestResolver(t *testing.T, dependencies ResolverDependencies) *Resolver {
	t.Helper()
	resolver, err := NewResolver(dependencies, ResolverOptions{ManifestPath: "/tmp/project/composer.json", PrimaryBranch: testPrimaryBranchConstant})
	require.NoError(t, err)
	return resolver
}

func TestResolveUsesManifestWithoutConsultingGitConfig(t *testing.T) {
	manifestReader := &stubManifestReader{branchAliases: map[string]string{"dev-master": "2.1.x-dev"}}
	configStore := &recordingConfigStore{values: map[string]string{"branch.master.alias": "9.9-dev"}}

	resolution, err := newTestResolver(t, ResolverDependencies{ManifestReader: manifestReader, ConfigStore: configStore}).Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, Resolution{Alias: "2.1-dev", Source: SourceManifest, PrimaryBranch: testPrimaryBranchConstant}, resolution)
	require.Equal(t, "/tmp/project/composer.json", manifestReader.requestedPath)
	require.Empty(t, configStore.reads)
	require.Empty(t, configStore.writes)
}

func TestResolveFallsBackToGitConfigVerbatim(t *testing.T) {
	configStore := &recordingConfigStore{values: map[string]string{"branch.master.alias": "1.x-dev"}}

	resolution, err := newTestResolver(t, ResolverDependencies{
		ManifestReader: &stubManifestReader{branchAliases: map[string]string{"dev-develop": "3.0-dev"}},
		ConfigStore:    configStore,
	}).Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.x-dev", resolution.Alias)
	require.Equal(t, SourceGitConfig, resolution.Source)
	require.Equal(t, []string{"branch.master.alias"}, configStore.reads)
}

func TestResolveSkipsUnusableManifest(t *testing.T) {
	testCases := []struct {
		name           string
		manifestReader *stubManifestReader
	}{
		{name: "unreadable", manifestReader: &stubManifestReader{err: errors.New("failed to parse manifest")}},
		{name: "invalid_alias", manifestReader: &stubManifestReader{branchAliases: map[string]string{"dev-master": "stable"}}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.DebugLevel)
			configStore := &recordingConfigStore{values: map[string]string{"branch.master.alias": "1.0-dev"}}

			resolution, err := newTestResolver(t, ResolverDependencies{
				ManifestReader: testCase.manifestReader,
				ConfigStore:    configStore,
				Logger:         zap.New(observedCore),
			}).Resolve(context.Background())
			require.NoError(t, err)
			require.Equal(t, SourceGitConfig, resolution.Source)
			require.Equal(t, 1, observedLogs.FilterMessage("manifest branch alias unusable, falling back to git config").Len())
		})
	}
}

func TestResolvePromptsAndPersists(t *testing.T) {
	var output bytes.Buffer
	configStore := &recordingConfigStore{}

	resolution, err := newTestResolver(t, ResolverDependencies{
		ManifestReader: &stubManifestReader{},
		ConfigStore:    configStore,
		Prompter:       prompt.NewIOPrompter(strings.NewReader("stable\nv1.0\n"), &output),
	}).Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, Resolution{Alias: "1.0-dev", Source: SourcePrompt, PrimaryBranch: testPrimaryBranchConstant}, resolution)
	require.Equal(t, []recordedWrite{{key: "branch.master.alias", value: "1.0-dev", scope: gitconfig.ScopeLocal, overwrite: true}}, configStore.writes)
	require.Equal(t, 1, strings.Count(output.String(), "Enter <major>.<minor> such as 1.0 or v2.3; -dev is appended automatically."))
	require.Equal(t, 2, strings.Count(output.String(), `Development alias for branch "master"`))
}

func TestResolvePromptStoresAliasWithoutVersionPrefix(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedAlias string
	}{
		{name: "plain_version", input: "2.3\n", expectedAlias: "2.3-dev"},
		{name: "prefixed_version", input: "v2.3\n", expectedAlias: "2.3-dev"},
		{name: "prefixed_version_with_spaces", input: "  v10.0  \n", expectedAlias: "10.0-dev"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			configStore := &recordingConfigStore{}
			resolution, err := newTestResolver(t, ResolverDependencies{
				ManifestReader: &stubManifestReader{},
				ConfigStore:    configStore,
				Prompter:       prompt.NewIOPrompter(strings.NewReader(testCase.input), &bytes.Buffer{}),
			}).Resolve(context.Background())
			require.NoError(t, err)
			require.Equal(t, testCase.expectedAlias, resolution.Alias)
			require.Len(t, configStore.writes, 1)
			require.Equal(t, testCase.expectedAlias, configStore.writes[0].value)
		})
	}
}

func TestResolveWithoutPrompterFails(t *testing.T) {
	configStore := &recordingConfigStore{}

	_, err := newTestResolver(t, ResolverDependencies{ManifestReader: &stubManifestReader{}, ConfigStore: configStore}).Resolve(context.Background())
	require.ErrorIs(t, err, ErrAliasUnavailable)
	require.Empty(t, configStore.writes)
}

func TestResolvePropagatesGitConfigFailure(t *testing.T) {
	configStore := &recordingConfigStore{getError: errors.New("bad config file")}

	_, err := newTestResolver(t, ResolverDependencies{ManifestReader: &stubManifestReader{}, ConfigStore: configStore}).Resolve(context.Background())
	require.ErrorContains(t, err, "bad config file")
}

func TestSetPersistsNormalizedAlias(t *testing.T) {
	configStore := &recordingConfigStore{}
	resolver := newTestResolver(t, ResolverDependencies{ManifestReader: &stubManifestReader{}, ConfigStore: configStore})

	resolution, err := resolver.Set(context.Background(), "v2.4")
	require.NoError(t, err)
	require.Equal(t, "2.4-dev", resolution.Alias)
	require.Equal(t, SourceExplicit, resolution.Source)
	require.Equal(t, "branch.master.alias", configStore.writes[0].key)

	_, err = resolver.Set(context.Background(), "latest")
	require.IsType(t, InvalidAliasFormatError{}, err)
	require.Len(t, configStore.writes, 1)
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver(ResolverDependencies{ConfigStore: &recordingConfigStore{}}, ResolverOptions{PrimaryBranch: "master"})
	require.ErrorIs(t, err, ErrManifestReaderNotConfigured)

	_, err = NewResolver(ResolverDependencies{ManifestReader: &stubManifestReader{}}, ResolverOptions{PrimaryBranch: "master"})
	require.ErrorIs(t, err, ErrConfigStoreNotConfigured)

	_, err = NewResolver(ResolverDependencies{ManifestReader: &stubManifestReader{}, ConfigStore: &recordingConfigStore{}}, ResolverOptions{PrimaryBranch: " "})
	require.ErrorIs(t, err, ErrPrimaryBranchRequired)
}
