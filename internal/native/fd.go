package native

import (
	"strings"

	"github.com/mikoloy/devicetrust/internal/constants"
	"github.com/mikoloy/devicetrust/internal/sys/proc"
)

var fdKeywords = [...]string{"frida", "gadget", "gum-js"}

// ScanFdDir reports whether any descriptor symlink in dir resolves to a
// hooking-tool path. It stops at the first match and reads at most
// constants.MaxFdEntries entries. An unreadable dir reports false.
func ScanFdDir(dir string) bool {
	found := false

	_ = proc.WalkFdLinks(dir, constants.MaxFdEntries, func(link proc.FdLink) bool {
		if _, ok := matchKeyword(strings.ToLower(link.Target), fdKeywords[:]); ok {
			found = true
			return false
		}
		return true
	})

	return found
}

// CheckFds scans the current process's descriptor directory.
func CheckFds() bool {
	return ScanFdDir(constants.SelfFdDir)
}
