// Package log captures grid events: topology changes, power switching and
// failed operations.
//
// It is separate from operational logging (slog). Event capture gives a
// complete machine-readable trace of how a tree was assembled and switched.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/gridtree/grid.glog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(adapter, fileLogger)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. The
// grid-log command views, filters and exports them.
package log
