// Package chat holds conversation types, the system message source, and the
// on-disk conversation history store.
package chat

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation. The orchestrator treats history as
// read-only input.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"content"`
}

// System, User and Assistant build turns with the matching role.
func System(text string) Turn    { return Turn{Role: RoleSystem, Text: text} }
func User(text string) Turn      { return Turn{Role: RoleUser, Text: text} }
func Assistant(text string) Turn { return Turn{Role: RoleAssistant, Text: text} }
