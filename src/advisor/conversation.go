package advisor

import (
	"context"

	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationStore is the append-only per-user chat log. An empty
// sessionID selects the user's default session on Append; Recent and Clear
// always span all sessions.
type ConversationStore interface {
	Append(ctx context.Context, userID int64, role, text, sessionID string) (*models.ConversationTurn, error)
	Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationTurn, error)
	Clear(ctx context.Context, userID int64) error
}

// FormatHistory projects stored turns onto the role/content pairs the
// completion service consumes, preserving order and dropping all other
// metadata.
func FormatHistory(turns []models.ConversationTurn) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, models.ChatMessage{Role: t.Role, Content: t.Message})
	}
	return messages
}

// PGConversationStore persists turns in the conversation_history table.
type PGConversationStore struct {
	pool *pgxpool.Pool
}

func NewPGConversationStore(pool *pgxpool.Pool) *PGConversationStore {
	return &PGConversationStore{pool: pool}
}

func (s *PGConversationStore) Append(ctx context.Context, userID int64, role, text, sessionID string) (*models.ConversationTurn, error) {
	turn, err := sqldb.StoreMessage(ctx, s.pool, userID, role, text, sessionID)
	if err != nil {
		return nil, &StorageError{Op: "store message", Err: err}
	}
	return turn, nil
}

func (s *PGConversationStore) Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationTurn, error) {
	turns, err := sqldb.GetConversationHistory(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, &StorageError{Op: "load history", Err: err}
	}
	return turns, nil
}

func (s *PGConversationStore) Clear(ctx context.Context, userID int64) error {
	if err := sqldb.ClearConversationHistory(ctx, s.pool, userID); err != nil {
		return &StorageError{Op: "clear history", Err: err}
	}
	return nil
}
