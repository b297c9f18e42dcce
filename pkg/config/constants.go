package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PCBSTOCK_DB_DSN"
	EnvDBHost = "PCBSTOCK_DB_HOST"
	EnvDBUser = "PCBSTOCK_DB_USER"
	EnvDBName = "PCBSTOCK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
