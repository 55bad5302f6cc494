package provider

import (
	"fmt"

	"github.com/user/codechat/internal/chat"
)

// OpenRouter is a unified gateway exposing models from many vendors behind
// one OpenAI-compatible endpoint.
type OpenRouter struct {
	apiKey string
	config Config
}

// NewOpenRouter creates the openrouter provider.
func NewOpenRouter(apiKey string) Provider {
	return &OpenRouter{
		apiKey: apiKey,
		config: Config{
			Name:           "openrouter",
			APIURL:         "https://openrouter.ai/api/v1/chat/completions",
			SupportsTokens: true,
			AuthHeader:     "Authorization",
			AuthFormat:     "Bearer %s",
		},
	}
}

func (p *OpenRouter) Config() Config { return p.config }

func (p *OpenRouter) Headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		p.config.AuthHeader: fmt.Sprintf(p.config.AuthFormat, p.apiKey),
		// Attribution headers OpenRouter uses for ranking and dashboards.
		"HTTP-Referer": "https://github.com/user/codechat",
		"X-Title":      "codechat",
	}
}

func (p *OpenRouter) BuildBody(messages []chat.Turn, model string) (any, error) {
	return buildChatBody(messages, model)
}

func (p *OpenRouter) ParseAnswer(raw []byte) (string, error) {
	return parseChatAnswer(raw)
}

func (p *OpenRouter) ParseUsage(raw []byte) Usage {
	return parseChatUsage(raw)
}
