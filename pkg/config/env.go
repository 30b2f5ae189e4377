package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ATTARMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ATTARMART_DB_DSN"
	EnvDBHost = "ATTARMART_DB_HOST"
	EnvDBUser = "ATTARMART_DB_USER"
	EnvDBName = "ATTARMART_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
