package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func entryFor(relPath string, size int64) FileEntry {
	return FileEntry{
		Path:      "/abs/" + relPath,
		RelPath:   relPath,
		SizeBytes: size,
		Ext:       filepath.Ext(relPath),
	}
}

// TestPathFilter_ShouldInclude covers the rule precedence table
func TestPathFilter_ShouldInclude(t *testing.T) {
	tests := []struct {
		name  string
		rules FilterRules
		entry FileEntry
		want  bool
	}{
		{
			name:  "no rules includes everything",
			rules: FilterRules{},
			entry: entryFor("src/main.go", 100),
			want:  true,
		},
		{
			name:  "include glob match",
			rules: FilterRules{IncludeGlobs: []string{"*.go"}},
			entry: entryFor("src/main.go", 100),
			want:  true,
		},
		{
			name:  "include glob miss",
			rules: FilterRules{IncludeGlobs: []string{"*.go"}},
			entry: entryFor("README.md", 100),
			want:  false,
		},
		{
			name:  "exclude glob match",
			rules: FilterRules{ExcludeGlobs: []string{"*_test.go"}},
			entry: entryFor("src/main_test.go", 100),
			want:  false,
		},
		{
			name: "exclude wins over include",
			rules: FilterRules{
				IncludeGlobs: []string{"*.go"},
				ExcludeGlobs: []string{"vendor/"},
			},
			entry: entryFor("vendor/lib.go", 100),
			want:  false,
		},
		{
			name:  "ignored folder segment",
			rules: FilterRules{IgnoredFolders: []string{"node_modules"}},
			entry: entryFor("web/node_modules/pkg/index.js", 100),
			want:  false,
		},
		{
			name:  "ignored folder name as file is fine",
			rules: FilterRules{IgnoredFolders: []string{"build"}},
			entry: entryFor("docs/build", 100),
			want:  true,
		},
		{
			name:  "over max file bytes",
			rules: FilterRules{MaxFileBytes: 50},
			entry: entryFor("big.go", 51),
			want:  false,
		},
		{
			name:  "at max file bytes",
			rules: FilterRules{MaxFileBytes: 50},
			entry: entryFor("ok.go", 50),
			want:  true,
		},
		{
			name:  "allowed extension match is case-insensitive",
			rules: FilterRules{AllowedExtensions: []string{".go", ".PY"}},
			entry: entryFor("script.py", 100),
			want:  true,
		},
		{
			name:  "extension not in allow list",
			rules: FilterRules{AllowedExtensions: []string{".go"}},
			entry: entryFor("notes.txt", 100),
			want:  false,
		},
		{
			name:  "empty allow list excludes everything",
			rules: FilterRules{AllowedExtensions: []string{}},
			entry: entryFor("main.go", 100),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewPathFilter(tt.rules)
			got := filter.ShouldInclude(tt.entry)
			if got != tt.want {
				t.Errorf("ShouldInclude(%q) = %v, want %v", tt.entry.RelPath, got, tt.want)
			}
		})
	}
}

// TestPathFilter_Purity verifies repeated calls give identical answers
func TestPathFilter_Purity(t *testing.T) {
	filter := NewPathFilter(FilterRules{
		IncludeGlobs:   []string{"*.go"},
		ExcludeGlobs:   []string{"*_gen.go"},
		IgnoredFolders: []string{"vendor"},
	})
	entries := []FileEntry{
		entryFor("a.go", 10),
		entryFor("a_gen.go", 10),
		entryFor("vendor/b.go", 10),
		entryFor("c.txt", 10),
	}

	first := make([]bool, len(entries))
	for i, e := range entries {
		first[i] = filter.ShouldInclude(e)
	}
	for round := 0; round < 3; round++ {
		for i, e := range entries {
			if got := filter.ShouldInclude(e); got != first[i] {
				t.Fatalf("round %d: answer for %q changed from %v to %v",
					round, e.RelPath, first[i], got)
			}
		}
	}
}

func TestPathFilter_PruneDir(t *testing.T) {
	filter := NewPathFilter(FilterRules{IgnoredFolders: []string{"node_modules", ".git"}})

	if !filter.PruneDir("node_modules") {
		t.Error("Expected node_modules to be pruned")
	}
	if !filter.PruneDir(".git") {
		t.Error("Expected .git to be pruned")
	}
	if filter.PruneDir("src") {
		t.Error("Expected src not to be pruned")
	}
}

// TestLoadIgnoreFile tests folding gitignore patterns into the rules
func TestLoadIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\n*.log\ntmp/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules := FilterRules{ExcludeGlobs: []string{"*.bak"}}
	if err := LoadIgnoreFile(dir, ".gitignore", &rules); err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}

	want := []string{"*.bak", "*.log", "tmp/"}
	if len(rules.ExcludeGlobs) != len(want) {
		t.Fatalf("Expected %d patterns, got %v", len(want), rules.ExcludeGlobs)
	}
	for i, pattern := range want {
		if rules.ExcludeGlobs[i] != pattern {
			t.Errorf("Pattern %d: expected %q, got %q", i, pattern, rules.ExcludeGlobs[i])
		}
	}

	filter := NewPathFilter(rules)
	if filter.ShouldInclude(entryFor("debug.log", 10)) {
		t.Error("Expected *.log pattern from .gitignore to exclude debug.log")
	}
}

func TestLoadIgnoreFile_Missing(t *testing.T) {
	rules := FilterRules{}
	if err := LoadIgnoreFile(t.TempDir(), ".gitignore", &rules); err != nil {
		t.Errorf("Expected missing ignore file to be a no-op, got %v", err)
	}
	if len(rules.ExcludeGlobs) != 0 {
		t.Errorf("Expected no patterns, got %v", rules.ExcludeGlobs)
	}
}
