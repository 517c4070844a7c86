package native

import "strings"

// libcExport is the libc function whose owning module is checked. It is
// exported by every libc and never legitimately interposed.
const libcExport = "getpid"

// expectedLibcFragments are the path fragments accepted for the module that
// owns the libc export: the system library directory, the APEX runtime
// directory and the libc filename itself.
var expectedLibcFragments = [...]string{"/system/lib", "/apex/", "libc.so"}

// LibcCheck is the result of resolving the libc export to its owning module.
type LibcCheck struct {
	SoPath     string
	Unexpected bool
}

// ClassifyLibcPath reports whether path is an unexpected owner for the libc
// export. The match is a plain substring test and is kept coarse on purpose;
// downstream scoring depends on it.
func ClassifyLibcPath(path string) bool {
	for _, fragment := range expectedLibcFragments {
		if strings.Contains(path, fragment) {
			return false
		}
	}
	return true
}

// NewLibcCheck builds a LibcCheck from a resolved module path. An empty path
// means resolution failed, which is not evidence of anything.
func NewLibcCheck(path string) LibcCheck {
	if path == "" {
		return LibcCheck{}
	}
	return LibcCheck{SoPath: path, Unexpected: ClassifyLibcPath(path)}
}

// CheckLibcSymbol resolves the module that owns the libc export in the
// current process using the platform backend.
func CheckLibcSymbol() LibcCheck {
	path, ok := resolveLibcExport()
	if !ok {
		return LibcCheck{}
	}
	return NewLibcCheck(path)
}

// LibcBackend names the resolution backend compiled into this binary.
func LibcBackend() string {
	return libcBackend
}
