package alias

import "strings"

const defaultRemoteNameConstant = "origin"

// CommandConfiguration captures configuration values for the branch-alias command and alias lookups made by other commands.
type CommandConfiguration struct {
	ManifestPath  string `mapstructure:"manifest"`
	PrimaryBranch string `mapstructure:"primary_branch"`
	RemoteName    string `mapstructure:"remote"`
}

// DefaultCommandConfiguration reads composer.json and detects the primary branch through origin.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ManifestPath:  DefaultManifestFileName,
		PrimaryBranch: "",
		RemoteName:    defaultRemoteNameConstant,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestPath = strings.TrimSpace(configuration.ManifestPath)
	sanitized.PrimaryBranch = strings.TrimSpace(configuration.PrimaryBranch)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	return sanitized
}
