// Package advisor implements the conversational advisory pipeline: it
// aggregates a user's transactions into a financial summary, maintains the
// persisted conversation log, and orchestrates the round-trip to the
// external completion service.
package advisor

import (
	"context"
	"log"
	"strings"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// historyLimit bounds how many turns are replayed into the prompt.
	historyLimit = 20

	// Low temperature biases the model toward consistent answers; the
	// token ceiling bounds response length.
	temperature = 0.5
	maxTokens   = 800
)

const systemPrompt = `You are an expert financial advisor helping a user with their financial tracking and planning.
You have access to their financial data, which is provided below.
Provide clear, actionable financial advice based on their question and the financial data.
Always be professional, helpful, and focused on improving their financial health.
Do not make up information that isn't in the provided data.
If you need more data to give good advice, suggest what information would be helpful.
Remember the conversation history and maintain context with the user.`

// Service coordinates the advisory pipeline. Collaborators are injected so
// tests can substitute fakes.
type Service struct {
	store     ConversationStore
	builder   *ContextBuilder
	completer Completer
}

func NewService(store ConversationStore, builder *ContextBuilder, completer Completer) *Service {
	return &Service{store: store, builder: builder, completer: completer}
}

// NewPGService wires the postgres-backed collaborators around the given
// pool and completion client.
func NewPGService(pool *pgxpool.Pool, completer Completer) *Service {
	return NewService(
		NewPGConversationStore(pool),
		NewContextBuilder(NewPGAggregator(pool)),
		completer,
	)
}

// GetAdvice runs one advisory turn. The sequence is strict: the user turn
// is persisted before anything is sent to the completion service, so the
// model never answers a question that was not recorded. Later failures do
// not roll the user turn back; a retry simply shows the model the
// unanswered prior turn as context.
func (s *Service) GetAdvice(ctx context.Context, userID int64, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &ValidationError{Msg: "query must not be empty"}
	}

	if _, err := s.store.Append(ctx, userID, models.RoleUser, query, ""); err != nil {
		return "", err
	}

	financialContext, err := s.builder.BuildContext(ctx, userID)
	if err != nil {
		return "", err
	}

	history, err := s.store.Recent(ctx, userID, historyLimit)
	if err != nil {
		return "", err
	}

	// The history already ends with the turn persisted above.
	messages := make([]models.ChatMessage, 0, len(history)+1)
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: systemPrompt + "\n\n" + financialContext,
	})
	messages = append(messages, FormatHistory(history)...)

	advice, err := s.completer.Complete(ctx, messages, temperature, maxTokens)
	if err != nil {
		return "", err
	}

	// The advice is returned even if recording it fails; the gap in
	// history is logged rather than surfaced.
	if _, err := s.store.Append(ctx, userID, models.RoleAssistant, advice, ""); err != nil {
		log.Printf("ERROR: Failed to store assistant turn for user %d: %v", userID, err)
	}

	return advice, nil
}

// GetHistory returns up to limit turns for the user in chronological order.
func (s *Service) GetHistory(ctx context.Context, userID int64, limit int) ([]models.ConversationTurn, error) {
	return s.store.Recent(ctx, userID, limit)
}

// ClearHistory deletes the user's entire conversation log. Idempotent.
func (s *Service) ClearHistory(ctx context.Context, userID int64) error {
	return s.store.Clear(ctx, userID)
}
