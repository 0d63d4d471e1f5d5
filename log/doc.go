// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, callsite information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("pipe started", slog.String("path", path))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCallsite(true))
//
// A package-level default logger writing to standard error is available
// through the top-level functions ([Info], [Error], and so on) and is
// reconfigured with [Config].
//
// # Output Formats
//
// Two output formats are supported, [FormatJSON] (default) and
// [FormatText], each with an optional colorized pretty variant enabled
// by [WithPretty].
package log
