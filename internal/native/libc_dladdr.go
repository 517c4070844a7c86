//go:build cgo && (linux || darwin)

package native

/*
#cgo linux LDFLAGS: -ldl
#define _GNU_SOURCE
#include <dlfcn.h>
#include <stddef.h>
#include <unistd.h>

// dt_getpid_owner returns the path of the module that dladdr attributes the
// getpid export to, or NULL when dladdr has no answer. The string belongs to
// the dynamic linker and must not be freed.
static const char* dt_getpid_owner(void) {
	Dl_info info;
	if (dladdr((void*)getpid, &info) == 0) {
		return NULL;
	}
	return info.dli_fname;
}
*/
import "C"

const libcBackend = "dladdr"

func resolveLibcExport() (string, bool) {
	name := C.dt_getpid_owner()
	if name == nil {
		return "", false
	}
	return C.GoString(name), true
}
