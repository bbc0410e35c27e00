package domain

import (
	"strings"
	"time"
)

// CredentialRecord is the single locally persisted secret/PIN pair.
// The PIN itself is never kept; only its hash is.
type CredentialRecord struct {
	Secret    string
	CodeHash  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry in the chat transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the message was written by the user.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}

// ModelInfo describes a model offered by the remote service.
type ModelInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

// Label returns the display name, falling back to the ID.
func (m ModelInfo) Label() string {
	if strings.TrimSpace(m.Name) != "" {
		return m.Name
	}
	return m.ID
}
