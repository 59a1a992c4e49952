package release

import (
	"strings"

	"github.com/temirov/hubkit/internal/repos/shared"
)

// CommandConfiguration captures configuration values for the release command.
type CommandConfiguration struct {
	RemoteName string `mapstructure:"remote"`
	Message    string `mapstructure:"message"`
	Draft      bool   `mapstructure:"draft"`
	Prerelease bool   `mapstructure:"prerelease"`
	Publish    bool   `mapstructure:"publish"`
}

// DefaultCommandConfiguration pushes tags to origin and publishes a non-draft GitHub release.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName: shared.OriginRemoteNameConstant,
		Message:    "",
		Draft:      false,
		Prerelease: false,
		Publish:    true,
	}
}

// Sanitize trims configuration values and restores the default remote.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = shared.OriginRemoteNameConstant
	}
	sanitized.Message = strings.TrimSpace(configuration.Message)
	return sanitized
}
