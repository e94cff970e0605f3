// Package cli contains the command line interface for reportgen.
//
// # Usage
//
// Without a subcommand the arguments are evaluated as one expression:
//
//	reportgen -P Qty=3 -P Price=2.50 'ROUND(Qty * Price, 1)'
//
// Placeholder text is rendered from files or stdin:
//
//	reportgen render --params order.yaml invoice.txt
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Nested keys are joined with '-', so
//
//	log:
//	  level: debug
//
// sets --log-level. The init command writes the current settings to that
// file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Template Store Options
//
//   - --store-kind: dir, sqlite or memory
//   - --store-path: Directory or database file of the store
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o reportgen .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
