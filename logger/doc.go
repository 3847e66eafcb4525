// Package logger provides structured logging for the stewardtrack
// bridge using zerolog.
//
// It supports JSON and console output, log level configuration,
// rotating file outputs, and component-scoped loggers with structured
// fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/stewardtrack/bridge.log"
//
// When output names a file path the log is rotated with
// max_size/max_backups/max_age.
//
// # Usage
//
//	log := logger.Get("offline")
//	log.Info("cache warmed", logger.Fields("entity", "members"))
package logger
