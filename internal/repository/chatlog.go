package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vesturport/spjall/internal/domain"
)

// ChatLogRepo owns the chat_log table. Rows are append-only: nothing is
// ever deleted, only the is_active flag is cleared in bulk by a reset.
type ChatLogRepo struct {
	db *pgxpool.Pool
}

func NewChatLogRepo(db *pgxpool.Pool) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

// CreateUserTurn persists a user prompt as a new active turn.
func (r *ChatLogRepo) CreateUserTurn(ctx context.Context, text string) (*domain.ChatLog, error) {
	turn := &domain.ChatLog{UserInput: &text, IsActive: true}
	err := r.db.QueryRow(ctx,
		`INSERT INTO chat_log (user_input, is_active) VALUES ($1, TRUE)
		 RETURNING id, created_at`,
		text,
	).Scan(&turn.ID, &turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user turn: %w", err)
	}
	return turn, nil
}

// CreateAITurn persists a completed AI response as a new active turn,
// tagged with the model that produced it.
func (r *ChatLogRepo) CreateAITurn(ctx context.Context, text, model string) (*domain.ChatLog, error) {
	turn := &domain.ChatLog{AIResponse: &text, IsActive: true, AIModel: &model}
	err := r.db.QueryRow(ctx,
		`INSERT INTO chat_log (ai_response, is_active, ai_model) VALUES ($1, TRUE, $2)
		 RETURNING id, created_at`,
		text, model,
	).Scan(&turn.ID, &turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create ai turn: %w", err)
	}
	return turn, nil
}

// ListActive returns the current conversation window, oldest first.
func (r *ChatLogRepo) ListActive(ctx context.Context) ([]domain.ChatLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_input, ai_response, is_active, ai_model, created_at
		 FROM chat_log WHERE is_active ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatLog
	for rows.Next() {
		var t domain.ChatLog
		if err := rows.Scan(&t.ID, &t.UserInput, &t.AIResponse, &t.IsActive, &t.AIModel, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active turns: %w", err)
	}
	return turns, nil
}

// DeactivateAll clears the active flag on every turn. Running it again is
// a no-op.
func (r *ChatLogRepo) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `UPDATE chat_log SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate turns: %w", err)
	}
	return nil
}
