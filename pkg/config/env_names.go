package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry full names.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "WRAPNEST_DB_DSN"
	EnvDBHost = "WRAPNEST_DB_HOST"
	EnvDBUser = "WRAPNEST_DB_USER"
	EnvDBName = "WRAPNEST_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
