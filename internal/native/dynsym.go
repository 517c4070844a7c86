package native

import (
	"debug/elf"
	"strings"

	"github.com/mikoloy/devicetrust/internal/constants"
	"github.com/mikoloy/devicetrust/internal/sys/proc"
)

// exportLocation is where a dynamic symbol lives inside its ELF file.
type exportLocation struct {
	vaddr  uint64 // link-time virtual address
	offset uint64 // file offset backing vaddr
	pie    bool   // ET_DYN objects are relocated by their load bias
}

// exportLookup finds name in the dynamic symbol table of the object at path.
type exportLookup func(path, name string) (exportLocation, bool)

// ResolveExportFromMaps resolves the module owning the dynamic export name by
// reading the maps listing at mapsPath and the .dynsym tables of the mapped
// objects. It does not rely on the dynamic linker.
func ResolveExportFromMaps(mapsPath, name string) (string, bool) {
	entries, err := proc.ReadMaps(mapsPath, constants.MaxMapsLines, constants.MaxMapsLineBytes)
	if err != nil {
		return "", false
	}
	return resolveExport(entries, name, lookupDynamicExport)
}

// resolveExport walks executable file-backed mappings in listing order, takes
// the first object defining name, relocates the symbol into the address space
// and returns the path of the mapping that owns the resulting address.
func resolveExport(entries []proc.MapsEntry, name string, lookup exportLookup) (string, bool) {
	for _, path := range executableObjects(entries) {
		loc, ok := lookup(path, name)
		if !ok {
			continue
		}

		addr, ok := runtimeAddress(entries, path, loc)
		if !ok {
			continue
		}

		owner, ok := proc.OwnerOf(entries, addr)
		if !ok || owner.Path == "" {
			continue
		}
		return owner.Path, true
	}
	return "", false
}

// executableObjects returns the distinct file paths that have an executable
// mapping, in first-seen order.
func executableObjects(entries []proc.MapsEntry) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, e := range entries {
		if !e.Executable() || !strings.HasPrefix(e.Path, "/") {
			continue
		}
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		paths = append(paths, e.Path)
	}
	return paths
}

// runtimeAddress converts an export location into a virtual address in the
// current process using the file offset of the mapping that backs it.
func runtimeAddress(entries []proc.MapsEntry, path string, loc exportLocation) (uint64, bool) {
	if !loc.pie {
		return loc.vaddr, true
	}

	for _, e := range entries {
		if e.Path != path {
			continue
		}
		size := e.End - e.Start
		if loc.offset >= e.Offset && loc.offset < e.Offset+size {
			return e.Start + (loc.offset - e.Offset), true
		}
	}
	return 0, false
}

func lookupDynamicExport(path, name string) (exportLocation, bool) {
	f, err := elf.Open(path)
	if err != nil {
		return exportLocation{}, false
	}
	defer f.Close() // nolint:errcheck

	syms, err := f.DynamicSymbols()
	if err != nil {
		return exportLocation{}, false
	}

	for _, sym := range syms {
		if sym.Name != name || sym.Section == elf.SHN_UNDEF || elf.ST_TYPE(sym.Info) != elf.STT_FUNC {
			continue
		}

		for _, prog := range f.Progs {
			if prog.Type != elf.PT_LOAD || sym.Value < prog.Vaddr || sym.Value >= prog.Vaddr+prog.Memsz {
				continue
			}
			return exportLocation{
				vaddr:  sym.Value,
				offset: prog.Off + (sym.Value - prog.Vaddr),
				pie:    f.Type == elf.ET_DYN,
			}, true
		}
	}

	return exportLocation{}, false
}
