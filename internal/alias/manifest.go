package alias

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"
)

const (
	manifestReadFailureTemplateConstant  = "failed to read manifest %s: %w"
	manifestParseFailureTemplateConstant = "failed to parse manifest %s: %w"
	// DefaultManifestFileName is the manifest looked up in the project root.
	DefaultManifestFileName = "composer.json"
)

// ManifestReader returns the extra.branch-alias map of a manifest, or nil when the file does not exist.
type ManifestReader interface {
	ReadBranchAliases(path string) (map[string]string, error)
}

// ComposerManifestReader reads composer.json files, tolerating comments and trailing commas.
type ComposerManifestReader struct{}

type composerManifest struct {
	Extra struct {
		BranchAlias map[string]string `json:"branch-alias"`
	} `json:"extra"`
}

// ReadBranchAliases implements ManifestReader.
func (ComposerManifestReader) ReadBranchAliases(path string) (map[string]string, error) {
	rawContent, readError := os.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(manifestReadFailureTemplateConstant, path, readError)
	}

	var manifest composerManifest
	if decodeError := json.Unmarshal(jsonc.ToJSON(rawContent), &manifest); decodeError != nil {
		return nil, fmt.Errorf(manifestParseFailureTemplateConstant, path, decodeError)
	}
	if manifest.Extra.BranchAlias == nil {
		return map[string]string{}, nil
	}
	return manifest.Extra.BranchAlias, nil
}
