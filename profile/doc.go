// Package profile wraps [github.com/pkg/profile] for the reportgen command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	reportgen --pprof-mode=cpu render invoice.txt --param Total=12.5
//
// The profile is written to the directory given by --pprof-dir, which
// defaults to the pprof directory under the user cache directory, and can be
// inspected with:
//
//	go tool pprof -http=: ~/.cache/reportgen/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Start] never profiles.
// Building with the tag also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
