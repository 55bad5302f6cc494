package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("API_KEY", "")
	t.Setenv("PROVIDER", "")
	t.Setenv("MODELS", "")
	t.Setenv("DEFAULT_MODEL", "")
	t.Setenv("IGNORE_FOLDERS", "")
}

func writeProjectConfig(t *testing.T, workDir, content string) {
	t.Helper()
	dir := filepath.Join(workDir, ".codechat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_Defaults(t *testing.T) {
	isolateHome(t)

	cfg, err := NewLoader().Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "openrouter" {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.GetTimeout() != 120*time.Second {
		t.Errorf("timeout = %v", cfg.LLM.GetTimeout())
	}
	if len(cfg.Scan.IgnoreFolders) == 0 {
		t.Error("Expected default ignore folders")
	}
	if !cfg.Scan.UseGitignore {
		t.Error("Expected use_gitignore default true")
	}
}

func TestLoader_ProjectConfig(t *testing.T) {
	isolateHome(t)
	workDir := t.TempDir()
	writeProjectConfig(t, workDir, `
llm:
  provider: tachyon
  model: some/model
  timeout: 30
scan:
  max_file_bytes: 2048
`)

	cfg, err := NewLoader().Load(workDir, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "tachyon" {
		t.Errorf("provider = %q, want tachyon", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 30 {
		t.Errorf("timeout = %d, want 30", cfg.LLM.Timeout)
	}
	if cfg.Scan.MaxFileBytes != 2048 {
		t.Errorf("max_file_bytes = %d, want 2048", cfg.Scan.MaxFileBytes)
	}
	// Untouched fields keep their defaults.
	if cfg.LLM.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want default 3", cfg.LLM.MaxRetries)
	}
}

func TestLoader_CLIOverridesWin(t *testing.T) {
	isolateHome(t)
	workDir := t.TempDir()
	writeProjectConfig(t, workDir, "llm:\n  provider: tachyon\n")

	cfg, err := NewLoader().Load(workDir, map[string]any{
		"llm.provider": "custom",
		"llm.model":    "cli/model",
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "custom" {
		t.Errorf("provider = %q, want CLI override custom", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "cli/model" {
		t.Errorf("model = %q, want cli/model", cfg.LLM.Model)
	}
}

func TestLoader_LegacyEnv(t *testing.T) {
	isolateHome(t)
	t.Setenv("API_KEY", "env-secret-key")
	t.Setenv("PROVIDER", "tachyon")
	t.Setenv("IGNORE_FOLDERS", "alpha, beta ,gamma")

	cfg, err := NewLoader().Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "env-secret-key" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Provider != "tachyon" {
		t.Errorf("provider = %q, want tachyon from env", cfg.LLM.Provider)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(cfg.Scan.IgnoreFolders) != len(want) {
		t.Fatalf("ignore folders = %v", cfg.Scan.IgnoreFolders)
	}
	for i := range want {
		if cfg.Scan.IgnoreFolders[i] != want[i] {
			t.Errorf("ignore folder %d = %q, want %q", i, cfg.Scan.IgnoreFolders[i], want[i])
		}
	}
}

func TestLoader_MalformedProjectConfig(t *testing.T) {
	isolateHome(t)
	workDir := t.TempDir()
	writeProjectConfig(t, workDir, "llm: [not a map")

	if _, err := NewLoader().Load(workDir, nil); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"a,b,c", 3},
		{" a , b ", 2},
		{",,", 0},
		{"", 0},
		{"single", 1},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); len(got) != tt.want {
			t.Errorf("splitList(%q) = %v, want %d items", tt.in, got, tt.want)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolateHome(t)
	workDir := t.TempDir()

	cfg := Default()
	cfg.LLM.Provider = "tachyon"
	cfg.LLM.APIKey = "must-not-be-persisted"
	cfg.Scan.MaxFileBytes = 4096

	if err := Save(cfg, workDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, ".codechat", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" {
		t.Fatal("Expected non-empty config file")
	}
	if strings.Contains(string(data), "must-not-be-persisted") {
		t.Error("API key leaked into the persisted config")
	}

	loaded, err := NewLoader().Load(workDir, nil)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.LLM.Provider != "tachyon" {
		t.Errorf("provider = %q after round trip", loaded.LLM.Provider)
	}
	if loaded.Scan.MaxFileBytes != 4096 {
		t.Errorf("max_file_bytes = %d after round trip", loaded.Scan.MaxFileBytes)
	}
}
