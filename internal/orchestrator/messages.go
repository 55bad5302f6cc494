package orchestrator

import (
	"strings"

	"github.com/user/codechat/internal/chat"
)

// BuildMessages assembles the message sequence for one ask.
//
// First turn: system message (carrying the codebase context) plus the
// question. Later turn with freshly assembled context: system message is
// rebuilt and prepended to the history so the provider sees current file
// contents. Later turn without new context: the history already contains the
// original system message, so only the question is appended.
func BuildMessages(sys *chat.SystemMessageSource, history []chat.Turn, context, question string) []chat.Turn {
	userTurn := chat.User(question)
	firstTurn := len(history) == 0
	hasContext := strings.TrimSpace(context) != ""

	switch {
	case firstTurn:
		return []chat.Turn{chat.System(sys.Render(context)), userTurn}
	case hasContext:
		messages := make([]chat.Turn, 0, len(history)+2)
		messages = append(messages, chat.System(sys.Render(context)))
		messages = append(messages, history...)
		return append(messages, userTurn)
	default:
		messages := make([]chat.Turn, 0, len(history)+1)
		messages = append(messages, history...)
		return append(messages, userTurn)
	}
}
