//go:build linux && !cgo

package native

import "github.com/mikoloy/devicetrust/internal/constants"

// Without cgo there is no dladdr; fall back to reading .dynsym of the mapped
// objects. A statically linked binary maps no libc and resolves nothing.
const libcBackend = "elf-dynsym"

func resolveLibcExport() (string, bool) {
	return ResolveExportFromMaps(constants.SelfMapsPath, libcExport)
}
