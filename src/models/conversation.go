package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is one persisted message in a user's advisory chat log.
// Turns are append-only: they are never updated and only deleted in bulk.
type ConversationTurn struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is the role/content pair shape the completion service consumes.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
