package llm

import "strings"

const documentInstruction = "Use the following PDF content to answer the user:\n\n"

// BuildDocumentPrompt wraps extracted document text in the instruction
// used for the leading system message.
func BuildDocumentPrompt(text string) string {
	return documentInstruction + strings.TrimSpace(text)
}

// SplitSystem separates system messages from the conversation for
// providers that take the system prompt out of band. Multiple system
// messages are joined in order.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
