package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of the conversation history sent along
// with a prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ParseHistory decodes the JSON history passed by the client. An empty
// value is an empty history, not an error.
func ParseHistory(raw string) ([]Message, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHistory, err)
	}
	if err := ValidateHistory(msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ValidateHistory rejects messages with roles outside the user/assistant enum.
func ValidateHistory(msgs []Message) error {
	for i, m := range msgs {
		switch m.Role {
		case RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: unknown role %q at index %d", ErrInvalidHistory, m.Role, i)
		}
	}
	return nil
}
