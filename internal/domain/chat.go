package domain

import (
	"time"
)

// ChatLog is one persisted conversation turn. A row holds either a user
// prompt (UserInput set) or an AI response (AIResponse set, AIModel naming
// the upstream model that produced it), never both. The rendering layer
// and the reaction UI both depend on which field is populated.
type ChatLog struct {
	ID         int64
	UserInput  *string
	AIResponse *string
	IsActive   bool
	AIModel    *string
	CreatedAt  time.Time
}

func (c *ChatLog) IsUserTurn() bool {
	return c.UserInput != nil
}

func (c *ChatLog) IsAITurn() bool {
	return c.AIResponse != nil
}

// Reaction is an emoji attached to a prior turn. Exactly one of
// UserChatID/AIChatID references the target row, mirroring the turn
// duality above. Reactions are immutable once created.
type Reaction struct {
	ID         int64
	UserChatID *int64
	AIChatID   *int64
	Emoji      string
	CreatedAt  time.Time
}
