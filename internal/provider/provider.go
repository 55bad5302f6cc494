// Package provider normalizes heterogeneous AI HTTP APIs behind one
// contract: a static endpoint description plus four pure transformation
// hooks. Providers never perform I/O themselves; the orchestrator owns the
// HTTP call so timeout and retry policy stay uniform across providers.
package provider

import (
	"fmt"

	"github.com/user/codechat/internal/chat"
	"github.com/user/codechat/internal/secrets"
)

// Config is the static description of one AI backend. Immutable once
// constructed.
type Config struct {
	Name           string
	APIURL         string
	SupportsTokens bool
	AuthHeader     string // header carrying the API key, e.g. "Authorization"
	AuthFormat     string // format with %s for the key, e.g. "Bearer %s"
}

// Usage holds normalized token accounting extracted from a response.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider adapts one AI HTTP backend. Implementations supply exactly four
// pure transformations; everything else (HTTP, retries, timeouts) lives in
// the orchestrator.
type Provider interface {
	Config() Config

	// Headers returns the full request header set including authentication.
	Headers() map[string]string

	// BuildBody produces the JSON-marshalable request body for the given
	// messages and model.
	BuildBody(messages []chat.Turn, model string) (any, error)

	// ParseAnswer extracts the answer text from a raw response body.
	ParseAnswer(raw []byte) (string, error)

	// ParseUsage extracts token counts from a raw response body. Providers
	// without token accounting return a zero Usage.
	ParseUsage(raw []byte) Usage
}

// ErrorKind classifies normalized provider failures.
type ErrorKind string

const (
	KindInvalidAPIKey     ErrorKind = "invalid_api_key"
	KindRateLimited       ErrorKind = "rate_limited"
	KindServerError       ErrorKind = "server_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknownProvider   ErrorKind = "unknown_provider"
)

// Error is a normalized provider failure. Messages are sanitized before
// construction so raw API keys never leak through error chains.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds an Error with the message passed through secrets masking.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: secrets.Sanitize(fmt.Sprintf(format, args...))}
}

// DebugInfo is a safe-to-print description of a configured provider.
type DebugInfo struct {
	Name           string
	APIURL         string
	AuthHeader     string
	SupportsTokens bool
	HasAPIKey      bool
	MaskedKey      string
}

// Describe returns provider metadata with the API key masked.
func Describe(p Provider, apiKey string) DebugInfo {
	cfg := p.Config()
	info := DebugInfo{
		Name:           cfg.Name,
		APIURL:         cfg.APIURL,
		AuthHeader:     cfg.AuthHeader,
		SupportsTokens: cfg.SupportsTokens,
		HasAPIKey:      apiKey != "",
	}
	if apiKey != "" {
		info.MaskedKey = secrets.MaskKey(apiKey)
	}
	return info
}
