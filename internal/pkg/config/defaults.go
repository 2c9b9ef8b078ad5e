package config

// Default values for configuration.
const (
	// Mongo defaults
	DefaultMongoURI = "mongodb://localhost:27017"
	DefaultDatabase = "rocketchat"

	// Output defaults
	DefaultWorkspaceDir = "./slack_export_core"
	DefaultCSVPath      = "./messages_export.csv"
	DefaultJSONDir      = "./slack_export_msgs"

	// Export defaults
	DefaultCSVSplitThreshold = 4000
	DefaultJSONPageSize      = 1000

	// Logging defaults
	DefaultLogLevel = "info"
)
