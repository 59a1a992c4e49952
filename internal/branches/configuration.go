package branches

import "strings"

const defaultRemoteNameConstant = "origin"

// ListConfiguration captures configuration values for the branches command.
type ListConfiguration struct {
	RemoteName string `mapstructure:"remote"`
}

// DefaultListConfiguration lists the branches of origin.
func DefaultListConfiguration() ListConfiguration {
	return ListConfiguration{RemoteName: defaultRemoteNameConstant}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration ListConfiguration) Sanitize() ListConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	return sanitized
}

// SyncConfiguration captures configuration values for the branch-sync command.
type SyncConfiguration struct {
	RemoteName   string `mapstructure:"remote"`
	AllowPush    bool   `mapstructure:"allow_push"`
	RequireClean bool   `mapstructure:"require_clean"`
}

// DefaultSyncConfiguration syncs against origin, refuses to push and requires a clean worktree before pulling.
func DefaultSyncConfiguration() SyncConfiguration {
	return SyncConfiguration{
		RemoteName:   defaultRemoteNameConstant,
		AllowPush:    false,
		RequireClean: true,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration SyncConfiguration) Sanitize() SyncConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	return sanitized
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); len(trimmed) > 0 {
			return trimmed
		}
	}
	return ""
}
