package provider

import (
	"fmt"

	"github.com/user/codechat/internal/chat"
)

// Tachyon targets the Tachyon inference API, another OpenAI-compatible
// backend with its own endpoint and user-agent conventions.
type Tachyon struct {
	apiKey string
	config Config
}

// NewTachyon creates the tachyon provider.
func NewTachyon(apiKey string) Provider {
	return &Tachyon{
		apiKey: apiKey,
		config: Config{
			Name:           "tachyon",
			APIURL:         "https://api.tachyon.ai/v1/chat/completions",
			SupportsTokens: true,
			AuthHeader:     "Authorization",
			AuthFormat:     "Bearer %s",
		},
	}
}

func (p *Tachyon) Config() Config { return p.config }

func (p *Tachyon) Headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		p.config.AuthHeader: fmt.Sprintf(p.config.AuthFormat, p.apiKey),
		"User-Agent":        "codechat/1.0",
	}
}

func (p *Tachyon) BuildBody(messages []chat.Turn, model string) (any, error) {
	return buildChatBody(messages, model)
}

func (p *Tachyon) ParseAnswer(raw []byte) (string, error) {
	return parseChatAnswer(raw)
}

func (p *Tachyon) ParseUsage(raw []byte) Usage {
	return parseChatUsage(raw)
}
