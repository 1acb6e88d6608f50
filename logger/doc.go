// Package logger provides structured logging for diarsplit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying request and batch identifiers.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("batch")
//	log.Info("batch finished", logger.Fields("processed", 3, "total", 4))
package logger
