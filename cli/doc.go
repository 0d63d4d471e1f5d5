// Package cli contains the command line interface for plumb.
//
// # Usage
//
// The CLI provides logging and profiling configuration:
//
//	plumb --log-level=debug --pprof-mode=cpu
//
// # Commands
//
//   - run: load pipeline definition file(s), materialize them as pipe
//     resources, and execute them against the content tree
//   - eval: evaluate a single expression against binding tokens
//   - repl: interactive expression evaluation with completion
//   - init: write a default configuration file from current flag values
//
// Binding tokens use key=value form, where the value may contain ${...}
// expression spans. Values without expression delimiters are treated as
// literals:
//
//	plumb run -s pipeline.yaml -b which=one -b 'label=${"v" + rev}'
//
// # Configuration Loader
//
// The package includes a Kong configuration loader ([resolve]) that reads
// YAML config files and converts them to Kong flag values. Flag values may
// nest under the "config" section or sit at the top level.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-callsite: Include call site information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/plumb/pprof)
package cli
