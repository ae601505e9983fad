package config

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Environments lists the accepted environment names.
var Environments = []string{EnvDevelopment, EnvStaging, EnvProduction}

// ValidEnvironment reports whether env is one of Environments.
func ValidEnvironment(env string) bool {
	for _, v := range Environments {
		if env == v {
			return true
		}
	}
	return false
}
