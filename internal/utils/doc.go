// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader (Viper with embedded defaults, files and
// HUBKIT_ environment overrides), LoggerFactory (zap), and the
// CommandContextAccessor used to pass the repository path between commands.
package utils
