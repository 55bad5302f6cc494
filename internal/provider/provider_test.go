package provider

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/user/codechat/internal/chat"
)

const sampleResponse = `{
	"id": "gen-123",
	"model": "test-model",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "the answer"}}
	],
	"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
}`

func builtinProviders(apiKey string) map[string]Provider {
	return map[string]Provider{
		"openrouter": NewOpenRouter(apiKey),
		"tachyon":    NewTachyon(apiKey),
		"custom":     NewCustom(apiKey, CustomSettings{}),
	}
}

// TestProviders_BuildBody verifies the request body shape for every built-in
// backend
func TestProviders_BuildBody(t *testing.T) {
	messages := []chat.Turn{
		chat.System("sys"),
		chat.User("question"),
	}

	for name, p := range builtinProviders("key-1234567890") {
		t.Run(name, func(t *testing.T) {
			body, err := p.BuildBody(messages, "test-model")
			if err != nil {
				t.Fatalf("BuildBody failed: %v", err)
			}

			data, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("body not marshalable: %v", err)
			}
			var decoded struct {
				Model       string  `json:"model"`
				MaxTokens   int     `json:"max_tokens"`
				Temperature float64 `json:"temperature"`
				Messages    []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatal(err)
			}
			if decoded.Model != "test-model" {
				t.Errorf("model = %q", decoded.Model)
			}
			if decoded.MaxTokens != 10000 {
				t.Errorf("max_tokens = %d, want 10000", decoded.MaxTokens)
			}
			if decoded.Temperature != 0.1 {
				t.Errorf("temperature = %v, want 0.1", decoded.Temperature)
			}
			if len(decoded.Messages) != 2 || decoded.Messages[0].Role != "system" ||
				decoded.Messages[1].Content != "question" {
				t.Errorf("messages = %+v", decoded.Messages)
			}
		})
	}
}

func TestProviders_BuildBody_EmptyModel(t *testing.T) {
	for name, p := range builtinProviders("key") {
		t.Run(name, func(t *testing.T) {
			if _, err := p.BuildBody([]chat.Turn{chat.User("q")}, ""); err == nil {
				t.Error("Expected error for empty model")
			}
		})
	}
}

// TestProviders_ParseAnswer verifies extraction from a canned response
func TestProviders_ParseAnswer(t *testing.T) {
	for name, p := range builtinProviders("key") {
		t.Run(name, func(t *testing.T) {
			answer, err := p.ParseAnswer([]byte(sampleResponse))
			if err != nil {
				t.Fatalf("ParseAnswer failed: %v", err)
			}
			if answer != "the answer" {
				t.Errorf("answer = %q", answer)
			}

			usage := p.ParseUsage([]byte(sampleResponse))
			if usage.PromptTokens != 120 || usage.CompletionTokens != 30 || usage.TotalTokens != 150 {
				t.Errorf("usage = %+v", usage)
			}
		})
	}
}

func TestParseAnswer_Malformed(t *testing.T) {
	p := NewOpenRouter("key")
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "<html>gateway error</html>"},
		{"no choices", `{"id": "x", "choices": []}`},
		{"embedded error", `{"error": {"message": "model overloaded"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseAnswer([]byte(tt.raw))
			var provErr *Error
			if !errors.As(err, &provErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if provErr.Kind != KindMalformedResponse {
				t.Errorf("kind = %s, want %s", provErr.Kind, KindMalformedResponse)
			}
		})
	}
}

func TestParseUsage_ComputesTotal(t *testing.T) {
	p := NewTachyon("key")
	raw := `{"choices":[{"message":{"content":"x"}}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`
	usage := p.ParseUsage([]byte(raw))
	if usage.TotalTokens != 15 {
		t.Errorf("Expected computed total 15, got %d", usage.TotalTokens)
	}
}

// TestProviders_Headers verifies authentication and identity headers
func TestProviders_Headers(t *testing.T) {
	key := "secret-api-key-123"

	t.Run("openrouter attribution headers", func(t *testing.T) {
		h := NewOpenRouter(key).Headers()
		if h["Authorization"] != "Bearer "+key {
			t.Errorf("Authorization = %q", h["Authorization"])
		}
		if h["HTTP-Referer"] == "" || h["X-Title"] == "" {
			t.Error("Expected attribution headers")
		}
	})

	t.Run("tachyon user agent", func(t *testing.T) {
		h := NewTachyon(key).Headers()
		if h["Authorization"] != "Bearer "+key {
			t.Errorf("Authorization = %q", h["Authorization"])
		}
		if !strings.HasPrefix(h["User-Agent"], "codechat/") {
			t.Errorf("User-Agent = %q", h["User-Agent"])
		}
	})

	t.Run("custom auth scheme", func(t *testing.T) {
		p := NewCustom(key, CustomSettings{
			APIURL:     "https://llm.internal/v1/chat/completions",
			AuthHeader: "X-Api-Key",
			AuthFormat: "%s",
		})
		h := p.Headers()
		if h["X-Api-Key"] != key {
			t.Errorf("X-Api-Key = %q", h["X-Api-Key"])
		}
		if p.Config().APIURL != "https://llm.internal/v1/chat/completions" {
			t.Errorf("APIURL = %q", p.Config().APIURL)
		}
	})
}

func TestCustom_EnvFallback(t *testing.T) {
	t.Setenv("API_URL", "https://env.example/v1/chat/completions")
	p := NewCustom("key", CustomSettings{})
	if p.Config().APIURL != "https://env.example/v1/chat/completions" {
		t.Errorf("Expected API_URL env fallback, got %q", p.Config().APIURL)
	}
}

func TestDescribe_MasksKey(t *testing.T) {
	info := Describe(NewOpenRouter("sk-or-v1-abcdef123456"), "sk-or-v1-abcdef123456")
	if !info.HasAPIKey {
		t.Error("Expected HasAPIKey")
	}
	if strings.Contains(info.MaskedKey, "abcdef123456") {
		t.Errorf("MaskedKey leaks the key: %q", info.MaskedKey)
	}
	if info.MaskedKey != "sk-...456" {
		t.Errorf("MaskedKey = %q", info.MaskedKey)
	}

	empty := Describe(NewOpenRouter(""), "")
	if empty.HasAPIKey || empty.MaskedKey != "" {
		t.Errorf("Expected empty-key describe, got %+v", empty)
	}
}
