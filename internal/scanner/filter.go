package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoredFolders are folder names pruned when no explicit list is
// configured. Mirrors the IGNORE_FOLDERS default.
var DefaultIgnoredFolders = []string{
	"venv", ".venv", "env", "__pycache__", "node_modules", "dist", "build", ".git",
}

// FilterRules configures which files a scan includes.
//
// IncludeGlobs and ExcludeGlobs use gitignore-style patterns. When
// IncludeGlobs is non-empty a path must match at least one of them; a path
// matching any ExcludeGlobs entry is always excluded, regardless of includes.
// IgnoredFolders are literal directory names matched against every path
// segment; matching directories are pruned entirely, not descended into.
// AllowedExtensions, when non-nil, restricts files to the listed extensions
// (lowercase, leading dot); matching is case-insensitive on the extension.
type FilterRules struct {
	IncludeGlobs      []string
	ExcludeGlobs      []string
	IgnoredFolders    []string
	MaxFileBytes      int64
	AllowedExtensions []string
}

// PathFilter decides whether file entries are included in a scan. It is pure:
// identical entries and rules always yield identical answers. Construct one
// per rule set; compilation of the glob patterns happens once.
type PathFilter struct {
	rules    FilterRules
	include  *ignore.GitIgnore
	exclude  *ignore.GitIgnore
	folders  map[string]struct{}
	allowExt map[string]struct{}
}

// NewPathFilter compiles rules into a reusable filter.
func NewPathFilter(rules FilterRules) *PathFilter {
	f := &PathFilter{rules: rules}
	if len(rules.IncludeGlobs) > 0 {
		f.include = ignore.CompileIgnoreLines(rules.IncludeGlobs...)
	}
	if len(rules.ExcludeGlobs) > 0 {
		f.exclude = ignore.CompileIgnoreLines(rules.ExcludeGlobs...)
	}
	if len(rules.IgnoredFolders) > 0 {
		f.folders = make(map[string]struct{}, len(rules.IgnoredFolders))
		for _, name := range rules.IgnoredFolders {
			name = strings.TrimSpace(name)
			if name != "" {
				f.folders[name] = struct{}{}
			}
		}
	}
	if rules.AllowedExtensions != nil {
		f.allowExt = make(map[string]struct{}, len(rules.AllowedExtensions))
		for _, ext := range rules.AllowedExtensions {
			f.allowExt[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
		}
	}
	return f
}

// ShouldInclude reports whether entry survives the configured rules.
// Exclusion rules take precedence over inclusion rules.
func (f *PathFilter) ShouldInclude(entry FileEntry) bool {
	if f.exclude != nil && f.exclude.MatchesPath(entry.RelPath) {
		return false
	}
	if f.inIgnoredFolder(entry.RelPath) {
		return false
	}
	if f.rules.MaxFileBytes > 0 && entry.SizeBytes > f.rules.MaxFileBytes {
		return false
	}
	if f.allowExt != nil {
		if _, ok := f.allowExt[strings.ToLower(entry.Ext)]; !ok {
			return false
		}
	}
	if f.include != nil && !f.include.MatchesPath(entry.RelPath) {
		return false
	}
	return true
}

// PruneDir reports whether a directory with the given name should be pruned
// from the walk. Separate from ShouldInclude so scanners can skip entire
// ignored subtrees instead of filtering their files one by one.
func (f *PathFilter) PruneDir(name string) bool {
	_, ok := f.folders[name]
	return ok
}

func (f *PathFilter) inIgnoredFolder(relPath string) bool {
	if len(f.folders) == 0 {
		return false
	}
	segments := strings.Split(relPath, "/")
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := f.folders[seg]; ok {
			return true
		}
	}
	return false
}

// LoadIgnoreFile reads gitignore-style patterns from root/name and appends
// them to rules.ExcludeGlobs. A missing file is not an error.
func LoadIgnoreFile(root, name string, rules *FilterRules) error {
	file, err := os.Open(filepath.Join(root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules.ExcludeGlobs = append(rules.ExcludeGlobs, line)
	}
	return sc.Err()
}
