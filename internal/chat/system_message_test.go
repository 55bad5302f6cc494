package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSystemMessageSource_Render(t *testing.T) {
	t.Run("default template", func(t *testing.T) {
		var src *SystemMessageSource
		got := src.Render("CODEBASE")
		if !strings.Contains(got, "helpful AI assistant") {
			t.Errorf("Expected default template, got %q", got)
		}
		if !strings.Contains(got, "CODEBASE") {
			t.Error("Expected codebase content substituted")
		}
		if strings.Contains(got, "{codebase_content}") {
			t.Error("Expected the content slot to be replaced")
		}
	})

	t.Run("custom template with slot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "systemmessage.txt")
		os.WriteFile(path, []byte("Answer tersely.\n\n{codebase_content}\n"), 0o644)

		src := &SystemMessageSource{FilePath: path}
		got := src.Render("CODEBASE")
		if !strings.HasPrefix(got, "Answer tersely.") {
			t.Errorf("Expected custom template, got %q", got)
		}
		if !strings.Contains(got, "CODEBASE") {
			t.Error("Expected codebase content substituted")
		}
	})

	t.Run("custom template without slot appends context", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "systemmessage.txt")
		os.WriteFile(path, []byte("You are a code reviewer."), 0o644)

		src := &SystemMessageSource{FilePath: path}
		got := src.Render("CODEBASE")
		if !strings.Contains(got, "You are a code reviewer.") {
			t.Errorf("Expected custom template, got %q", got)
		}
		if !strings.HasSuffix(got, "CODEBASE") {
			t.Error("Expected context appended when template has no slot")
		}
	})

	t.Run("missing file falls back to default", func(t *testing.T) {
		src := &SystemMessageSource{FilePath: filepath.Join(t.TempDir(), "nope.txt")}
		got := src.Render("CODEBASE")
		if !strings.Contains(got, "helpful AI assistant") {
			t.Errorf("Expected default template for missing file, got %q", got)
		}
	})

	t.Run("empty file falls back to default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "systemmessage.txt")
		os.WriteFile(path, []byte("   \n"), 0o644)

		src := &SystemMessageSource{FilePath: path}
		got := src.Render("CODEBASE")
		if !strings.Contains(got, "helpful AI assistant") {
			t.Errorf("Expected default template for empty file, got %q", got)
		}
	})
}
