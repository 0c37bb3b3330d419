package utils

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "rcpack failed"

	// ApplicationName is the name of the command line tool.
	ApplicationName = "rcpack"
	// ConfigFileName is the project-local configuration dotfile.
	ConfigFileName = ".repo-contextor.toml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".rcpack"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.toml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)
