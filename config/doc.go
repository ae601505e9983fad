// Package config loads componentkit process configuration.
//
// It uses Viper to read the config file and godotenv for .env files, then
// binds environment variables over the file values (LOG_LEVEL overrides
// log_level, STATUS_ADDR overrides status.addr).
//
// A document may pull in others through include_files. Includes are expanded
// depth first, each one tagged with the absolute config_dir it was read from,
// and merged in order with the components lists concatenated:
//
//	include_files:
//	  - /etc/componentd/common.yml
//	  - components.yml
//
// # Usage
//
//	var cfg RunConfig
//	err := config.LoadConfig("componentd", &cfg, config.WithConfigFile("componentd.yml"))
package config
