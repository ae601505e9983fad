// Package logger is the runtime's own structured log, built on zerolog.
//
// The manager, director and status server write registrations, lifecycle
// transitions and failures here, keyed with the Field constants. Components
// that want the level-gated logger registered as "logger" use package
// defaultlogger instead.
//
//	logging:
//	  level: info
//	  format: json
//
//	log := logger.WithComponent("director")
//	log.Info("component built", logger.Fields(logger.FieldName, "db"))
package logger
