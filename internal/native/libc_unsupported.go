//go:build !linux && !(darwin && cgo)

package native

const libcBackend = "unsupported"

func resolveLibcExport() (string, bool) {
	return "", false
}
