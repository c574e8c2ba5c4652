package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vesturport/spjall/internal/domain"
)

// foreign_key_violation
const pgErrForeignKey = "23503"

type ReactionRepo struct {
	db *pgxpool.Pool
}

func NewReactionRepo(db *pgxpool.Pool) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// Create records an emoji against a prior turn. isAITurn selects which of
// the two target columns is set.
func (r *ReactionRepo) Create(ctx context.Context, chatID int64, emoji string, isAITurn bool) (*domain.Reaction, error) {
	reaction := &domain.Reaction{Emoji: emoji}
	column := "user_chat_id"
	if isAITurn {
		column = "ai_chat_id"
		reaction.AIChatID = &chatID
	} else {
		reaction.UserChatID = &chatID
	}

	query := fmt.Sprintf(
		`INSERT INTO reaction (%s, emoji) VALUES ($1, $2) RETURNING id, created_at`,
		column,
	)
	err := r.db.QueryRow(ctx, query, chatID, emoji).Scan(&reaction.ID, &reaction.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKey {
			return nil, domain.ErrTurnNotFound
		}
		return nil, fmt.Errorf("create reaction: %w", err)
	}
	return reaction, nil
}
