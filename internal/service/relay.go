package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/domain"
)

// TurnStore is the slice of the persistence layer the relay needs.
type TurnStore interface {
	CreateUserTurn(ctx context.Context, text string) (*domain.ChatLog, error)
	CreateAITurn(ctx context.Context, text, model string) (*domain.ChatLog, error)
}

// StreamRelay drives one prompt submission end to end: persist the
// prompt, stream the upstream completion through to the client, persist
// the full response, and always terminate the event stream.
type StreamRelay struct {
	store     TurnStore
	client    CompletionClient
	modelTag  string
	maxTokens int
	pricing   Pricing
}

func NewStreamRelay(store TurnStore, client CompletionClient, pricing Pricing) *StreamRelay {
	return &StreamRelay{
		store:     store,
		client:    client,
		modelTag:  config.ModelTagStream,
		maxTokens: config.MaxCompletionTokens,
		pricing:   pricing,
	}
}

// Submit persists the user prompt, then starts streaming. The prompt
// write is synchronous: if it fails the whole request is aborted with a
// hard error and no event stream is produced. On success the returned
// channel yields zero or more Data events, then either a Done event
// carrying the new AI turn id or an Error event, then the unconditional
// terminal Done sentinel, after which the channel is closed.
func (r *StreamRelay) Submit(ctx context.Context, prompt string, history []domain.Message) (<-chan Event, error) {
	if _, err := r.store.CreateUserTurn(ctx, prompt); err != nil {
		return nil, fmt.Errorf("persist prompt: %w", err)
	}

	events := make(chan Event)
	go r.stream(ctx, prompt, history, events)
	return events, nil
}

func (r *StreamRelay) stream(ctx context.Context, prompt string, history []domain.Message, events chan<- Event) {
	reqID := uuid.New().String()[:8]

	// emit delivers one event unless the client has gone away.
	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	defer close(events)
	// Terminal sentinel: the client relies on the bare [DONE] as the only
	// trustworthy end-of-stream marker, so it goes out on every exit path.
	defer emit(Event{Kind: EventDone})

	messages := make([]domain.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: prompt})

	stream, err := r.client.StreamCompletion(ctx, messages, r.maxTokens)
	if err != nil {
		slog.Error("upstream completion failed", "request_id", reqID, "error", err)
		emit(Event{Kind: EventError, Err: err})
		return
	}
	defer stream.Close()

	var acc strings.Builder
	for stream.Next() {
		fragment := stream.Content()
		if fragment == "" {
			continue
		}
		acc.WriteString(fragment)
		if !emit(Event{Kind: EventData, Fragment: fragment}) {
			// Client disconnected mid-stream: release the upstream
			// connection and never persist the truncated response.
			slog.Info("client disconnected mid-stream", "request_id", reqID, "received", acc.Len())
			return
		}
	}
	if err := stream.Err(); err != nil {
		slog.Error("upstream stream failed", "request_id", reqID, "error", err)
		emit(Event{Kind: EventError, Err: err})
		return
	}

	turn, err := r.store.CreateAITurn(ctx, acc.String(), r.modelTag)
	if err != nil {
		slog.Error("persist ai response", "request_id", reqID, "error", err)
		emit(Event{Kind: EventError, Err: fmt.Errorf("persist response: %w", err)})
		return
	}

	promptTokens := 0
	for _, m := range messages {
		promptTokens += EstimateTokens(m.Content)
	}
	slog.Info("ai response persisted",
		"request_id", reqID,
		"turn_id", turn.ID,
		"length", acc.Len(),
		"cost_estimate", r.pricing.Estimate(promptTokens, EstimateTokens(acc.String())).String(),
	)
	emit(Event{Kind: EventDone, TurnID: turn.ID})
}
