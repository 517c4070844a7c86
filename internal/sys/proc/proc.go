// Package proc provides read-only helpers over the Linux /proc filesystem.
// It parses memory-map listings and enumerates descriptor symlinks with
// fixed iteration caps so callers never scan unbounded input.
package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MapsEntry is one parsed line of a /proc/<pid>/maps listing.
//
// Format: address           perms offset  dev   inode   pathname
// Example: 7f2c1a000000-7f2c1a1c0000 r-xp 00000000 08:01 123456 /system/lib64/libc.so
type MapsEntry struct {
	Start  uint64
	End    uint64
	Perms  string
	Offset uint64
	Dev    string
	Inode  uint64
	Path   string // Empty for anonymous mappings
}

// Executable reports whether the mapping carries the execute permission.
func (e MapsEntry) Executable() bool {
	return len(e.Perms) >= 3 && e.Perms[2] == 'x'
}

// Contains reports whether addr falls inside the mapping.
func (e MapsEntry) Contains(addr uint64) bool {
	return addr >= e.Start && addr < e.End
}

// ParseMapsLine parses a single maps line. It returns false for lines that do
// not carry at least the address range and permission columns.
func ParseMapsLine(line string) (MapsEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return MapsEntry{}, false
	}

	start, end, ok := strings.Cut(fields[0], "-")
	if !ok {
		return MapsEntry{}, false
	}

	var entry MapsEntry
	var err error
	if entry.Start, err = strconv.ParseUint(start, 16, 64); err != nil {
		return MapsEntry{}, false
	}
	if entry.End, err = strconv.ParseUint(end, 16, 64); err != nil {
		return MapsEntry{}, false
	}
	entry.Perms = fields[1]

	if len(fields) > 2 {
		entry.Offset, _ = strconv.ParseUint(fields[2], 16, 64)
	}
	if len(fields) > 3 {
		entry.Dev = fields[3]
	}
	if len(fields) > 4 {
		entry.Inode, _ = strconv.ParseUint(fields[4], 10, 64)
	}
	if len(fields) > 5 {
		// Paths may contain spaces; keep everything after the inode column.
		entry.Path = strings.Join(fields[5:], " ")
	}

	return entry, true
}

// LineReader yields newline-terminated lines from r. A line longer than
// maxLineBytes is truncated to its first maxLineBytes bytes; the remainder is
// discarded and reading resumes at the next line.
type LineReader struct {
	br   *bufio.Reader
	line string
	err  error
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader, maxLineBytes int) *LineReader {
	return &LineReader{br: bufio.NewReaderSize(r, maxLineBytes)}
}

// Next advances to the next line. It returns false at end of input or on a
// read error.
func (l *LineReader) Next() bool {
	if l.err != nil {
		return false
	}

	chunk, err := l.br.ReadSlice('\n')
	line := string(chunk)

	// Skip the tail of an over-long line.
	for err == bufio.ErrBufferFull {
		_, err = l.br.ReadSlice('\n')
	}

	switch {
	case err == io.EOF:
		l.err = err
		if line == "" {
			return false
		}
	case err != nil:
		l.err = err
		return false
	}

	l.line = strings.TrimSuffix(line, "\n")
	return true
}

// Text returns the current line without its trailing newline.
func (l *LineReader) Text() string {
	return l.line
}

// Err returns the first non-EOF read error.
func (l *LineReader) Err() error {
	if l.err == io.EOF {
		return nil
	}
	return l.err
}

// ParseMaps parses at most maxLines lines from r. Unparseable lines are skipped
// but still count toward the cap.
func ParseMaps(r io.Reader, maxLines, maxLineBytes int) ([]MapsEntry, error) {
	lr := NewLineReader(r, maxLineBytes)

	var entries []MapsEntry
	for lines := 0; lines < maxLines && lr.Next(); lines++ {
		if entry, ok := ParseMapsLine(lr.Text()); ok {
			entries = append(entries, entry)
		}
	}

	if err := lr.Err(); err != nil {
		return entries, fmt.Errorf("failed to read maps: %w", err)
	}
	return entries, nil
}

// ReadMaps opens and parses a maps listing such as /proc/self/maps.
func ReadMaps(path string, maxLines, maxLineBytes int) ([]MapsEntry, error) {
	//nolint:gosec // G304: Path is from /proc filesystem for process introspection.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() // nolint:errcheck

	return ParseMaps(f, maxLines, maxLineBytes)
}

// OwnerOf returns the mapping that contains addr.
func OwnerOf(entries []MapsEntry, addr uint64) (MapsEntry, bool) {
	for _, e := range entries {
		if e.Contains(addr) {
			return e, true
		}
	}
	return MapsEntry{}, false
}

// FdLink is a resolved descriptor symlink.
type FdLink struct {
	Name   string
	Target string
}

// WalkFdLinks reads at most maxEntries names from dir (typically /proc/self/fd)
// and calls fn with each resolved symlink target, in directory order.
// Readdirnames never returns "." or "..", so the cap counts real entries; any
// other dot-prefixed names count toward it but are not resolved. Entries whose readlink fails are
// skipped. Walking stops when fn returns false.
func WalkFdLinks(dir string, maxEntries int, fn func(FdLink) bool) error {
	//nolint:gosec // G304: Path is from /proc filesystem for process introspection.
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer d.Close() // nolint:errcheck

	// A single bounded read; the directory is never listed in full.
	names, err := d.Readdirnames(maxEntries)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}

		target, err := os.Readlink(filepath.Join(dir, name))
		if err != nil || target == "" {
			continue
		}

		if !fn(FdLink{Name: name, Target: target}) {
			return nil
		}
	}

	return nil
}
