package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one the upstream accepts
func (r MessageRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ChatMessage is one entry of a conversation. Order is significant.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// DecodeHistory parses a serialized conversation. Empty input, including
// a JSON null, is an empty history.
func DecodeHistory(raw []byte) ([]ChatMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []ChatMessage{}, nil
	}

	var messages []ChatMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, NewValidationError(map[string]string{
			"messages": "must be a JSON array of {role, content}",
		})
	}

	for i, m := range messages {
		if !m.Role.Valid() {
			return nil, NewValidationError(map[string]string{
				fmt.Sprintf("messages[%d].role", i): "must be one of system, user, assistant",
			})
		}
	}
	if messages == nil {
		messages = []ChatMessage{}
	}

	return messages, nil
}
