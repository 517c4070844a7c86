package native

import (
	"io"
	"os"
	"strings"

	"github.com/mikoloy/devicetrust/internal/constants"
	"github.com/mikoloy/devicetrust/internal/sys/proc"
)

// mapsKeywords are matched against lower-cased maps lines in this order; the
// first hit wins.
var mapsKeywords = [...]string{
	"frida", "gum-js", "gum_js", "gadget",
	"substrate", "xposed", "lsposed", "edxposed",
}

// rwxMarkers are the accepted textual forms of a writable-executable mapping.
var rwxMarkers = [...]string{" rwxp", " rwx"}

// MapsAnalysis is the result of scanning a memory-map listing.
type MapsAnalysis struct {
	RWXSegments       int
	HasRWX            bool
	FridaLibLoaded    bool
	SuspiciousModules []string
}

// AnalyzeMaps scans the listing at path. A listing that cannot be opened
// yields the zero MapsAnalysis.
func AnalyzeMaps(path string) MapsAnalysis {
	//nolint:gosec // G304: Path is from /proc filesystem for process introspection.
	f, err := os.Open(path)
	if err != nil {
		return MapsAnalysis{}
	}
	defer f.Close() // nolint:errcheck

	return ScanMaps(f)
}

// ScanMaps scans at most constants.MaxMapsLines lines from r. Lines longer
// than constants.MaxMapsLineBytes are inspected up to that length and still
// counted. A read error ends the scan and keeps what was gathered so far.
func ScanMaps(r io.Reader) MapsAnalysis {
	var result MapsAnalysis

	lr := proc.NewLineReader(r, constants.MaxMapsLineBytes)
	for lines := 0; lines < constants.MaxMapsLines && lr.Next(); lines++ {
		result.scanLine(lr.Text())
	}

	return result
}

func (m *MapsAnalysis) scanLine(line string) {
	if hasRWXMarker(line) {
		m.RWXSegments++
		m.HasRWX = true
	}

	keyword, ok := matchKeyword(strings.ToLower(line), mapsKeywords[:])
	if !ok {
		return
	}

	if strings.Contains(keyword, "frida") || strings.Contains(keyword, "gum") {
		m.FridaLibLoaded = true
	}

	if module := moduleName(line); module != "" {
		m.addModule(module)
	}
}

func (m *MapsAnalysis) addModule(module string) {
	for _, existing := range m.SuspiciousModules {
		if existing == module {
			return
		}
	}
	m.SuspiciousModules = append(m.SuspiciousModules, module)
}

func hasRWXMarker(line string) bool {
	for _, marker := range rwxMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// matchKeyword returns the first keyword contained in s.
func matchKeyword(s string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return kw, true
		}
	}
	return "", false
}

// moduleName returns the path segment after the last '/', cut at the first
// whitespace. Lines without a '/' carry no module name.
func moduleName(line string) string {
	idx := strings.LastIndexByte(line, '/')
	if idx < 0 {
		return ""
	}

	module := line[idx+1:]
	if ws := strings.IndexAny(module, " \t"); ws >= 0 {
		module = module[:ws]
	}
	return module
}

// CheckMaps scans the current process's memory-map listing.
func CheckMaps() MapsAnalysis {
	return AnalyzeMaps(constants.SelfMapsPath)
}
