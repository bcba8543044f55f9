// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output on stderr, consumed by the desktop shell's log file
//   - Development: colored console output for `LOG_DEV=true` runs
//
// Components receive a *zap.Logger named after themselves (tree, content,
// watch, ws, ...) through Logger.Component.
//
// Example Usage:
//
//	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Info("server starting", zap.String("addr", addr))
//	watchLog := logger.Component("watch")
package logging
