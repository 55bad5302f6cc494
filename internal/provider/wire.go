package provider

import (
	"encoding/json"
	"fmt"

	"github.com/user/codechat/internal/chat"
)

// The built-in backends all speak an OpenAI-compatible chat-completions
// dialect; they differ in endpoint, headers and auth scheme. The wire types
// below are shared by those providers. A backend with a different schema
// implements the Provider hooks directly instead.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatChoice struct {
	Index   int         `json:"index"`
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type chatResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []chatChoice     `json:"choices"`
	Usage   chatUsage        `json:"usage"`
	Error   *chatErrorDetail `json:"error,omitempty"`
}

// Request knobs shared by the built-in providers.
const (
	defaultMaxTokens   = 10000
	defaultTemperature = 0.1
)

func buildChatBody(messages []chat.Turn, model string) (any, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	wire := make([]chatMessage, len(messages))
	for i, turn := range messages {
		wire[i] = chatMessage{Role: turn.Role, Content: turn.Text}
	}
	return chatRequest{
		Model:       model,
		Messages:    wire,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}, nil
}

func parseChatAnswer(raw []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", NewError(KindMalformedResponse, "could not parse response JSON: %v", err)
	}
	if resp.Error != nil {
		return "", NewError(KindMalformedResponse, "API returned error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(KindMalformedResponse, "response contains no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseChatUsage(raw []byte) Usage {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Usage{}
	}
	u := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}
