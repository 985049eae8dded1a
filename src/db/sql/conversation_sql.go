package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultSession is the session label used when a caller does not supply
// one: a single continuous conversation per user.
func DefaultSession(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// StoreMessage appends one turn to the conversation log. The timestamp is
// assigned by the database so ordering is consistent across writers. An
// empty sessionID selects the user's default session.
func StoreMessage(ctx context.Context, pool *pgxpool.Pool, userID int64, role, message, sessionID string) (*models.ConversationTurn, error) {
	if sessionID == "" {
		sessionID = DefaultSession(userID)
	}

	query := `
		INSERT INTO conversation_history (user_id, session_id, role, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, session_id, role, message, timestamp
	`
	var t models.ConversationTurn
	err := pool.QueryRow(ctx, query, userID, sessionID, role, message).
		Scan(&t.ID, &t.UserID, &t.SessionID, &t.Role, &t.Message, &t.Timestamp)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetConversationHistory returns up to limit most recent turns for the user
// across all sessions, in chronological order. The query fetches newest
// first and the slice is reversed before returning; prompt assembly relies
// on the oldest-first contract.
func GetConversationHistory(ctx context.Context, pool *pgxpool.Pool, userID int64, limit int) ([]models.ConversationTurn, error) {
	query := `
		SELECT id, user_id, session_id, role, message, timestamp
		FROM conversation_history
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	rows, err := pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionID, &t.Role, &t.Message, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// GetSessionHistory returns the oldest turns of one session, oldest first.
func GetSessionHistory(ctx context.Context, pool *pgxpool.Pool, userID int64, sessionID string, limit int) ([]models.ConversationTurn, error) {
	query := `
		SELECT id, user_id, session_id, role, message, timestamp
		FROM conversation_history
		WHERE user_id = $1 AND session_id = $2
		ORDER BY timestamp ASC
		LIMIT $3
	`
	rows, err := pool.Query(ctx, query, userID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionID, &t.Role, &t.Message, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ClearConversationHistory deletes every turn for the user across all
// sessions. Clearing an empty history is not an error.
func ClearConversationHistory(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	query := `DELETE FROM conversation_history WHERE user_id = $1`
	_, err := pool.Exec(ctx, query, userID)
	return err
}
