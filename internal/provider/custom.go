package provider

import (
	"fmt"
	"os"

	"github.com/user/codechat/internal/chat"
)

// CustomSettings describe an arbitrary OpenAI-compatible endpoint so a user
// can target self-hosted or niche backends without code changes. Zero-value
// fields fall back to environment variables and then to defaults.
type CustomSettings struct {
	APIURL     string
	AuthHeader string
	AuthFormat string
}

// Custom is a user-configurable provider for OpenAI-compatible APIs.
type Custom struct {
	apiKey string
	config Config
}

// NewCustom creates the custom provider from explicit settings.
func NewCustom(apiKey string, settings CustomSettings) Provider {
	if settings.APIURL == "" {
		settings.APIURL = os.Getenv("API_URL")
	}
	if settings.APIURL == "" {
		settings.APIURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if settings.AuthHeader == "" {
		settings.AuthHeader = "Authorization"
	}
	if settings.AuthFormat == "" {
		settings.AuthFormat = "Bearer %s"
	}
	return &Custom{
		apiKey: apiKey,
		config: Config{
			Name:           "custom",
			APIURL:         settings.APIURL,
			SupportsTokens: true,
			AuthHeader:     settings.AuthHeader,
			AuthFormat:     settings.AuthFormat,
		},
	}
}

func (p *Custom) Config() Config { return p.config }

func (p *Custom) Headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		p.config.AuthHeader: fmt.Sprintf(p.config.AuthFormat, p.apiKey),
	}
}

func (p *Custom) BuildBody(messages []chat.Turn, model string) (any, error) {
	return buildChatBody(messages, model)
}

func (p *Custom) ParseAnswer(raw []byte) (string, error) {
	return parseChatAnswer(raw)
}

func (p *Custom) ParseUsage(raw []byte) Usage {
	return parseChatUsage(raw)
}
