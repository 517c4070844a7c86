// Package native collects point-in-time instrumentation signals from the
// current process.
//
// Three independent detectors inspect OS-exposed metadata:
//
//   - the memory-map listing (writable-executable regions, hooking-tool modules)
//   - the open descriptor symlinks (hooking-tool paths)
//   - the module owning the libc getpid export (GOT/PLT redirection)
//
// A Collector runs them and merges their output into a Report. Detectors never
// mutate process state and never fail: an unavailable surface, an unreadable
// entry or a reached guardrail cap all degrade to a "no signal" value.
//
// The checks are best-effort heuristics and are evadable; no verdict is
// assigned here.
package native
