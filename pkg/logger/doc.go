// Package logger builds configured *slog.Logger instances.
//
// Text format suits development, JSON suits log aggregation. Static
// attributes can be attached to every record, which is how components tag
// their log lines with the service name.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithLevel(slog.LevelInfo),
//	    logger.WithAttr(slog.String("service", "focusdeck")),
//	)
package logger
