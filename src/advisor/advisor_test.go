package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeStore struct {
	turns []models.ConversationTurn

	failUserAppend      bool
	failAssistantAppend bool
	failRecent          bool

	nextID int64
}

func (f *fakeStore) Append(ctx context.Context, userID int64, role, text, sessionID string) (*models.ConversationTurn, error) {
	if f.failUserAppend && role == models.RoleUser {
		return nil, &StorageError{Op: "store message", Err: errors.New("connection refused")}
	}
	if f.failAssistantAppend && role == models.RoleAssistant {
		return nil, &StorageError{Op: "store message", Err: errors.New("connection refused")}
	}
	if sessionID == "" {
		sessionID = "user_1"
	}
	f.nextID++
	turn := models.ConversationTurn{
		ID:        f.nextID,
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Message:   text,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Second),
	}
	f.turns = append(f.turns, turn)
	return &turn, nil
}

func (f *fakeStore) Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationTurn, error) {
	if f.failRecent {
		return nil, &StorageError{Op: "load history", Err: errors.New("connection refused")}
	}
	start := 0
	if len(f.turns) > limit {
		start = len(f.turns) - limit
	}
	out := make([]models.ConversationTurn, len(f.turns[start:]))
	copy(out, f.turns[start:])
	return out, nil
}

func (f *fakeStore) Clear(ctx context.Context, userID int64) error {
	f.turns = nil
	return nil
}

type fakeCompleter struct {
	response string
	err      error

	called   bool
	messages []models.ChatMessage
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	f.called = true
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(store *fakeStore, completer *fakeCompleter) *Service {
	agg := &fakeAggregator{
		balance: &models.BalanceSummary{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			Balance:       decimal.Zero,
		},
	}
	builder := NewContextBuilder(agg)
	builder.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	return NewService(store, builder, completer)
}

// --- tests ---

func TestGetAdvice_EmptyQuery(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{response: "advice"}
	s := newTestService(store, completer)

	_, err := s.GetAdvice(context.Background(), 1, "   ")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, store.turns, "no turn may be persisted for a rejected query")
	assert.False(t, completer.called)
}

func TestGetAdvice_HappyPath(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{response: "Spend less on dining out."}
	s := newTestService(store, completer)

	advice, err := s.GetAdvice(context.Background(), 1, "How am I doing?")
	require.NoError(t, err)
	assert.Equal(t, "Spend less on dining out.", advice)

	history, err := s.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "How am I doing?", history[0].Message)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, "Spend less on dining out.", history[1].Message)
}

func TestGetAdvice_PromptShape(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{response: "ok"}
	s := newTestService(store, completer)

	_, err := s.GetAdvice(context.Background(), 1, "Can I afford a vacation?")
	require.NoError(t, err)

	require.NotEmpty(t, completer.messages)
	first := completer.messages[0]
	assert.Equal(t, models.RoleSystem, first.Role)
	assert.Contains(t, first.Content, "financial advisor")
	assert.Contains(t, first.Content, "FINANCIAL SUMMARY:")

	last := completer.messages[len(completer.messages)-1]
	assert.Equal(t, models.RoleUser, last.Role)
	assert.Equal(t, "Can I afford a vacation?", last.Content)
}

func TestGetAdvice_CompletionFailureKeepsUserTurn(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{err: &ServiceError{Err: errors.New("rate limited")}}
	s := newTestService(store, completer)

	_, err := s.GetAdvice(context.Background(), 1, "How am I doing?")

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)

	history, err := s.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1, "the user turn must survive a completion failure")
	assert.Equal(t, models.RoleUser, history[0].Role)
}

func TestGetAdvice_UserAppendFailureAborts(t *testing.T) {
	store := &fakeStore{failUserAppend: true}
	completer := &fakeCompleter{response: "advice"}
	s := newTestService(store, completer)

	_, err := s.GetAdvice(context.Background(), 1, "How am I doing?")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, completer.called, "nothing may be sent to the completion service for an unrecorded turn")
}

func TestGetAdvice_AssistantAppendFailureStillReturnsAdvice(t *testing.T) {
	store := &fakeStore{failAssistantAppend: true}
	completer := &fakeCompleter{response: "Keep saving."}
	s := newTestService(store, completer)

	advice, err := s.GetAdvice(context.Background(), 1, "Any tips?")
	require.NoError(t, err)
	assert.Equal(t, "Keep saving.", advice)

	history, err := s.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleUser, history[0].Role)
}

func TestGetAdvice_ContextFailure(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{response: "advice"}
	agg := &fakeAggregator{txnErr: errors.New("connection refused")}
	builder := NewContextBuilder(agg)
	s := NewService(store, builder, completer)

	_, err := s.GetAdvice(context.Background(), 1, "How am I doing?")

	var contextErr *ContextError
	require.ErrorAs(t, err, &contextErr)
	assert.False(t, completer.called)

	history, err := s.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1, "the user turn is not rolled back on context failure")
}

func TestGetHistory_RespectsLimit(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store, &fakeCompleter{response: "ok"})

	for i := 0; i < 5; i++ {
		_, err := store.Append(context.Background(), 1, models.RoleUser, "q", "")
		require.NoError(t, err)
	}

	history, err := s.GetHistory(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp),
			"history must be in non-decreasing timestamp order")
	}
}

func TestClearHistory_Idempotent(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store, &fakeCompleter{response: "ok"})

	_, err := store.Append(context.Background(), 1, models.RoleUser, "q", "")
	require.NoError(t, err)

	require.NoError(t, s.ClearHistory(context.Background(), 1))
	history, err := s.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Clearing an already empty history is not an error.
	require.NoError(t, s.ClearHistory(context.Background(), 1))
}
