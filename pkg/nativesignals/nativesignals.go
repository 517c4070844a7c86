// Package nativesignals is the entry point used by the platform bridge.
//
// Collect takes no arguments and returns one report describing the current
// process: writable-executable mappings, hooking-tool modules and descriptors,
// and the module owning the libc getpid export. The report is a snapshot; the
// caller decides what it means.
//
//	report := nativesignals.Collect()
//	if report.FridaLibLoaded || report.FdFrida {
//		// hand off to the trust-scoring layer
//	}
package nativesignals

import (
	"github.com/rs/zerolog"

	"github.com/mikoloy/devicetrust/internal/native"
)

// Report is the serialized shape consumed by the trust-scoring layer.
type Report = native.Report

// Collect runs the native detectors once, sequentially, and returns the report.
func Collect() Report {
	return native.NewCollector(zerolog.Nop()).Collect()
}

// CollectJSON runs Collect and returns the report serialized as JSON.
func CollectJSON() string {
	return encode(Collect())
}

// Parse decodes a report produced by CollectJSON.
func Parse(data []byte) (Report, error) {
	return native.ParseReport(data)
}

func encode(r Report) string {
	data, err := r.JSON()
	if err != nil {
		// Unreachable for the fixed report shape; keep the contract anyway.
		data, _ = native.Report{}.JSON()
	}
	return string(data)
}
