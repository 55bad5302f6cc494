package chat

import (
	"os"
	"strings"
)

// DefaultSystemMessage is used when no custom system message file exists.
// The {codebase_content} slot is replaced with the assembled context.
const DefaultSystemMessage = "You are a helpful AI assistant that helps with code analysis. " +
	"The user has provided the following codebase:\n\n{codebase_content}"

// contentSlot marks where the codebase context is substituted.
const contentSlot = "{codebase_content}"

// SystemMessageSource produces the system message for a conversation,
// optionally from a user-supplied template file (systemmessage.txt by
// convention).
type SystemMessageSource struct {
	FilePath string
}

// Render returns the complete system message with the codebase content
// substituted. A template without the content slot has the context appended,
// so a custom prompt can never silently drop the codebase.
func (s *SystemMessageSource) Render(codebaseContent string) string {
	template := DefaultSystemMessage
	if s != nil && s.FilePath != "" {
		if data, err := os.ReadFile(s.FilePath); err == nil {
			if custom := strings.TrimSpace(string(data)); custom != "" {
				template = custom
			}
		}
	}
	if strings.Contains(template, contentSlot) {
		return strings.ReplaceAll(template, contentSlot, codebaseContent)
	}
	return template + "\n\n" + codebaseContent
}
