package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
)

const maxMessageLen = 4096

// TelegramNotifier pushes upstream failures to an admin chat so they are
// seen without tailing server logs. A nil notifier is valid and silently
// drops everything.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, chatID: chatID}, nil
}

// Error reports a failure with the operation it happened in. Best-effort:
// a failed notification is logged and dropped.
func (n *TelegramNotifier) Error(scope string, err error) {
	if n == nil {
		return
	}

	msg := fmt.Sprintf("❌ *Error*\n\n*Scope:* %s\n*Error:* `%s`\n*Time:* %s",
		scope, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	if len([]rune(msg)) > maxMessageLen {
		msg = string([]rune(msg)[:maxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, sendErr := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      msg,
		ParseMode: "Markdown",
	}); sendErr != nil {
		slog.Error("failed to send telegram notification", "scope", scope, "error", sendErr)
	}
}
