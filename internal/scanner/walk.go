package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// contextHeader formats the per-file separator used when assembling the
// combined context string.
func contextHeader(relPath string) string {
	return fmt.Sprintf("\n\n=== File: %s ===\n", relPath)
}

func validateRoot(root string) (string, error) {
	if root == "" {
		return "", ErrDirectoryNotFound
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", ErrDirectoryNotFound
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", ErrDirectoryNotFound
	}
	return abs, nil
}

func newFileEntry(root, path string, info fs.FileInfo) (FileEntry, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return FileEntry{}, fmt.Errorf("path %q escapes scan root", path)
	}
	return FileEntry{
		Path:      path,
		RelPath:   filepath.ToSlash(rel),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		Ext:       strings.ToLower(filepath.Ext(path)),
	}, nil
}

// walkFiltered walks root in deterministic lexical order, pruning ignored
// directories and invoking fn for every entry that survives the filter.
// Per-entry stat failures are reported through skip rather than aborting the
// walk. fn returning an error stops the walk and propagates it.
func walkFiltered(root string, filter *PathFilter, skip func(relPath, reason string), fn func(entry FileEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return ErrDirectoryNotFound
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			skip(filepath.ToSlash(rel), err.Error())
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && filter.PruneDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			skip(filepath.ToSlash(rel), err.Error())
			return nil
		}
		entry, err := newFileEntry(root, path, info)
		if err != nil {
			return nil
		}
		if !filter.ShouldInclude(entry) {
			return nil
		}
		return fn(entry)
	})
}

// binaryPlaceholder stands in for content that cannot be represented as text.
const binaryPlaceholder = "[binary file omitted]"

// readFileText reads a file and decodes it as UTF-8, substituting the
// replacement character for invalid sequences. Binary files yield a
// placeholder instead of raw bytes; the bool result reports whether the
// content was replaced.
func readFileText(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	if looksBinary(data) {
		return binaryPlaceholder, true, nil
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "�"), false, nil
	}
	return string(data), false, nil
}

// looksBinary applies a null-byte / non-printable heuristic to the first
// 512 bytes.
func looksBinary(data []byte) bool {
	n := len(data)
	if n == 0 {
		return false
	}
	if n > 512 {
		n = 512
	}
	nulls, nonPrintable := 0, 0
	for i := 0; i < n; i++ {
		b := data[i]
		if b == 0 {
			nulls++
		}
		if b != '\t' && b != '\n' && b != '\r' && b < 32 {
			nonPrintable++
		}
	}
	return nulls > n/10 || nonPrintable > n*3/10
}
