package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/codechat/internal/chat"
)

func TestRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()

	names := r.Names()
	want := []string{"custom", "openrouter", "tachyon"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	for _, name := range names {
		p, err := r.Create(name, "key")
		if err != nil {
			t.Errorf("Create(%q) failed: %v", name, err)
			continue
		}
		if p.Config().Name != name {
			t.Errorf("Create(%q) built provider named %q", name, p.Config().Name)
		}
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("nonexistent", "key")
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
	var provErr *Error
	if !errors.As(err, &provErr) || provErr.Kind != KindUnknownProvider {
		t.Fatalf("Expected KindUnknownProvider, got %v", err)
	}
	// The error should help the user find a valid name.
	if !strings.Contains(err.Error(), "openrouter") {
		t.Errorf("Expected registered names in error, got %q", err.Error())
	}
}

type stubProvider struct {
	name string
}

func (s *stubProvider) Config() Config              { return Config{Name: s.name} }
func (s *stubProvider) Headers() map[string]string  { return nil }
func (s *stubProvider) ParseUsage(raw []byte) Usage { return Usage{} }
func (s *stubProvider) BuildBody(messages []chat.Turn, model string) (any, error) {
	return nil, nil
}
func (s *stubProvider) ParseAnswer(raw []byte) (string, error) {
	return "", nil
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := NewRegistry()

	r.Register("openrouter", func(apiKey string) Provider {
		return &stubProvider{name: "first"}
	})
	r.Register("openrouter", func(apiKey string) Provider {
		return &stubProvider{name: "second"}
	})

	p, err := r.Create("openrouter", "key")
	if err != nil {
		t.Fatal(err)
	}
	if p.Config().Name != "second" {
		t.Errorf("Expected last registration to win, got %q", p.Config().Name)
	}

	// Re-registration must not add a duplicate name.
	if len(r.Names()) != 3 {
		t.Errorf("Names() = %v, expected 3 entries", r.Names())
	}
}
