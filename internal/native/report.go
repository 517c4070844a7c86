package native

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Report is the snapshot handed to the trust-scoring layer. Field names and
// types are a compatibility contract with the downstream parser.
type Report struct {
	RWXSegments          int      `json:"rwxSegments" yaml:"rwxSegments"`
	HasRWX               bool     `json:"hasRwx" yaml:"hasRwx"`
	FridaLibLoaded       bool     `json:"fridaLibLoaded" yaml:"fridaLibLoaded"`
	FdFrida              bool     `json:"fdFrida" yaml:"fdFrida"`
	LibcGetpidSo         string   `json:"libcGetpidSo" yaml:"libcGetpidSo"`
	LibcGetpidUnexpected bool     `json:"libcGetpidUnexpected" yaml:"libcGetpidUnexpected"`
	NativeTimeMs         float64  `json:"nativeTimeMs" yaml:"nativeTimeMs"`
	SuspiciousModules    []string `json:"suspiciousModules" yaml:"suspiciousModules"`
}

// ReportFields lists the serialized field names in contract order.
var ReportFields = [...]string{
	"rwxSegments",
	"hasRwx",
	"fridaLibLoaded",
	"fdFrida",
	"libcGetpidSo",
	"libcGetpidUnexpected",
	"nativeTimeMs",
	"suspiciousModules",
}

// NewReport merges detector outputs into a Report. The module list is copied
// so the Report shares no state with the analysis it came from.
func NewReport(maps MapsAnalysis, fdFrida bool, libc LibcCheck, elapsed time.Duration) Report {
	modules := make([]string, len(maps.SuspiciousModules))
	copy(modules, maps.SuspiciousModules)

	return Report{
		RWXSegments:          maps.RWXSegments,
		HasRWX:               maps.HasRWX,
		FridaLibLoaded:       maps.FridaLibLoaded,
		FdFrida:              fdFrida,
		LibcGetpidSo:         libc.SoPath,
		LibcGetpidUnexpected: libc.Unexpected,
		NativeTimeMs:         float64(elapsed.Nanoseconds()) / float64(time.Millisecond),
		SuspiciousModules:    modules,
	}
}

// MarshalJSON keeps suspiciousModules an array even when there are none.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	p := plain(r)
	if p.SuspiciousModules == nil {
		p.SuspiciousModules = []string{}
	}
	return encodeJSON(p)
}

// JSON serializes the report compactly. Only the characters JSON requires
// (quote, backslash, control characters) are escaped. Bytes that are not valid
// UTF-8 are replaced with U+FFFD, so such paths do not round-trip.
func (r Report) JSON() ([]byte, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode native report: %w", err)
	}
	return data, nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseReport decodes a serialized report, requiring every contract field
// and rejecting unknown ones.
func ParseReport(data []byte) (Report, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Report{}, fmt.Errorf("failed to decode native report: %w", err)
	}
	for _, name := range ReportFields {
		if _, ok := fields[name]; !ok {
			return Report{}, fmt.Errorf("native report is missing field %q", name)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var r Report
	if err := dec.Decode(&r); err != nil {
		return Report{}, fmt.Errorf("failed to decode native report: %w", err)
	}
	if r.SuspiciousModules == nil {
		return Report{}, fmt.Errorf("native report field %q must be an array", "suspiciousModules")
	}
	return r, nil
}

// ReportRow is one field of a report for tabular output.
type ReportRow struct {
	Field string `header:"FIELD"`
	Value string `header:"VALUE"`
}

// Rows flattens the report into field/value rows in contract order.
func (r Report) Rows() []ReportRow {
	modules := "[]"
	if len(r.SuspiciousModules) > 0 {
		data, err := encodeJSON(r.SuspiciousModules)
		if err == nil {
			modules = string(data)
		}
	}

	return []ReportRow{
		{Field: "rwxSegments", Value: strconv.Itoa(r.RWXSegments)},
		{Field: "hasRwx", Value: strconv.FormatBool(r.HasRWX)},
		{Field: "fridaLibLoaded", Value: strconv.FormatBool(r.FridaLibLoaded)},
		{Field: "fdFrida", Value: strconv.FormatBool(r.FdFrida)},
		{Field: "libcGetpidSo", Value: r.LibcGetpidSo},
		{Field: "libcGetpidUnexpected", Value: strconv.FormatBool(r.LibcGetpidUnexpected)},
		{Field: "nativeTimeMs", Value: strconv.FormatFloat(r.NativeTimeMs, 'f', 3, 64)},
		{Field: "suspiciousModules", Value: modules},
	}
}
