package native

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikoloy/devicetrust/internal/sys/proc"
)

func TestClassifyLibcPath(t *testing.T) {
	tests := []struct {
		path           string
		wantUnexpected bool
	}{
		{"/system/lib64/libc.so", false},
		{"/system/lib/libc.so", false},
		{"/apex/com.android.runtime/lib64/bionic/libc.so", false},
		{"/apex/com.android.runtime/lib64/bionic/libm.so", false},
		{"/lib/x86_64-linux-gnu/libc.so.6", false},
		{"/usr/lib/system/libsystem_kernel.dylib", false},
		{"/data/local/tmp/libinject.so", true},
		{"/data/app/com.evil/lib/arm64/libhook.so", true},
		{"/lib/ld-musl-x86_64.so.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.wantUnexpected, ClassifyLibcPath(tt.path))
		})
	}
}

func TestNewLibcCheck(t *testing.T) {
	assert.Equal(t, LibcCheck{}, NewLibcCheck(""))
	assert.Equal(t, LibcCheck{SoPath: "/system/lib64/libc.so"}, NewLibcCheck("/system/lib64/libc.so"))
	assert.Equal(t,
		LibcCheck{SoPath: "/data/local/tmp/libinject.so", Unexpected: true},
		NewLibcCheck("/data/local/tmp/libinject.so"))
}

func TestCheckLibcSymbol(t *testing.T) {
	got := CheckLibcSymbol()
	if got.SoPath == "" {
		// Resolution failure is reported as no signal.
		assert.False(t, got.Unexpected)
		return
	}
	assert.Equal(t, ClassifyLibcPath(got.SoPath), got.Unexpected)
}

func TestLibcBackend(t *testing.T) {
	assert.Contains(t, []string{"dladdr", "elf-dynsym", "unsupported"}, LibcBackend())
}

func TestResolveExport(t *testing.T) {
	entries := []proc.MapsEntry{
		{Start: 0x1000, End: 0x2000, Perms: "r-xp", Path: "/system/bin/app_process64"},
		{Start: 0x3000, End: 0x4000, Perms: "rw-p"},
		{Start: 0x7000, End: 0x8000, Perms: "r--p", Offset: 0, Path: "/system/lib64/libc.so"},
		{Start: 0x8000, End: 0xa000, Perms: "r-xp", Offset: 0x1000, Path: "/system/lib64/libc.so"},
	}

	libc := func(path, name string) (exportLocation, bool) {
		if path == "/system/lib64/libc.so" && name == "getpid" {
			return exportLocation{vaddr: 0x1500, offset: 0x1500, pie: true}, true
		}
		return exportLocation{}, false
	}

	path, ok := resolveExport(entries, "getpid", libc)
	require.True(t, ok)
	assert.Equal(t, "/system/lib64/libc.so", path)
	assert.False(t, ClassifyLibcPath(path))
}

func TestResolveExport_InterposedFirst(t *testing.T) {
	entries := []proc.MapsEntry{
		{Start: 0x5000, End: 0x6000, Perms: "r-xp", Path: "/data/local/tmp/libinject.so"},
		{Start: 0x8000, End: 0xa000, Perms: "r-xp", Path: "/system/lib64/libc.so"},
	}

	lookup := func(path, name string) (exportLocation, bool) {
		return exportLocation{vaddr: 0x100, offset: 0x100, pie: true}, true
	}

	path, ok := resolveExport(entries, "getpid", lookup)
	require.True(t, ok)
	assert.Equal(t, "/data/local/tmp/libinject.so", path)
	assert.True(t, ClassifyLibcPath(path))
}

func TestResolveExport_NonPIE(t *testing.T) {
	entries := []proc.MapsEntry{
		{Start: 0x400000, End: 0x500000, Perms: "r-xp", Path: "/system/bin/static"},
	}

	lookup := func(path, name string) (exportLocation, bool) {
		return exportLocation{vaddr: 0x401234, offset: 0x1234}, true
	}

	path, ok := resolveExport(entries, "getpid", lookup)
	require.True(t, ok)
	assert.Equal(t, "/system/bin/static", path)
}

func TestResolveExport_Unresolved(t *testing.T) {
	entries := []proc.MapsEntry{
		{Start: 0x1000, End: 0x2000, Perms: "r-xp", Path: "/system/lib64/libc.so"},
		{Start: 0x2000, End: 0x3000, Perms: "rwxp"},
	}

	none := func(path, name string) (exportLocation, bool) {
		return exportLocation{}, false
	}
	_, ok := resolveExport(entries, "getpid", none)
	assert.False(t, ok)

	// Symbol offset outside every mapping of the object.
	outside := func(path, name string) (exportLocation, bool) {
		return exportLocation{vaddr: 0x9000, offset: 0x9000, pie: true}, true
	}
	_, ok = resolveExport(entries, "getpid", outside)
	assert.False(t, ok)
}

func TestExecutableObjects(t *testing.T) {
	entries := []proc.MapsEntry{
		{Perms: "r-xp", Path: "/a.so"},
		{Perms: "r--p", Path: "/b.so"},
		{Perms: "r-xp", Path: "[vdso]"},
		{Perms: "r-xp", Path: "/a.so"},
		{Perms: "rwxp", Path: "/c.so"},
	}
	assert.Equal(t, []string{"/a.so", "/c.so"}, executableObjects(entries))
}

func TestLookupDynamicExport_NotELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libfake.so")
	require.NoError(t, os.WriteFile(path, []byte("not an elf"), 0o600))

	_, ok := lookupDynamicExport(path, "getpid")
	assert.False(t, ok)

	_, ok = lookupDynamicExport(filepath.Join(t.TempDir(), "missing.so"), "getpid")
	assert.False(t, ok)
}

func TestResolveExportFromMaps_Self(t *testing.T) {
	path, ok := ResolveExportFromMaps("/proc/self/maps", "getpid")
	if !ok {
		t.Skip("no mapped object exports getpid (static binary or no /proc)")
	}
	assert.NotEmpty(t, path)
}

func TestResolveExportFromMaps_Unavailable(t *testing.T) {
	_, ok := ResolveExportFromMaps(filepath.Join(t.TempDir(), "missing"), "getpid")
	assert.False(t, ok)
}
