package server

import (
	"context"

	"github.com/labstack/echo/v5"

	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/domain"
	"github.com/vesturport/spjall/internal/notify"
	"github.com/vesturport/spjall/internal/service"
)

// PromptStreamer is what /submit needs from the relay.
type PromptStreamer interface {
	Submit(ctx context.Context, prompt string, history []domain.Message) (<-chan service.Event, error)
}

// TemplatedCompleter is what /submit_chat2 needs from the templated client.
type TemplatedCompleter interface {
	Complete(ctx context.Context, prompt string, history []domain.Message) (string, error)
}

// ChatStore is the slice of the persistence layer the handlers use
// directly (the relay carries its own).
type ChatStore interface {
	CreateAITurn(ctx context.Context, text, model string) (*domain.ChatLog, error)
	ListActive(ctx context.Context) ([]domain.ChatLog, error)
	DeactivateAll(ctx context.Context) error
}

type ReactionStore interface {
	Create(ctx context.Context, chatID int64, emoji string, isAITurn bool) (*domain.Reaction, error)
}

type Server struct {
	cfg       *config.Config
	relay     PromptStreamer
	chat2     TemplatedCompleter
	chats     ChatStore
	reactions ReactionStore
	notifier  *notify.TelegramNotifier
}

// Deps contains everything required to construct the HTTP layer.
type Deps struct {
	Cfg       *config.Config
	Relay     PromptStreamer
	Chat2     TemplatedCompleter
	Chats     ChatStore
	Reactions ReactionStore
	Notifier  *notify.TelegramNotifier
}

// New wires all routes onto a fresh echo instance. Everything except
// /login sits behind the session gate.
func New(deps Deps) *echo.Echo {
	s := &Server{
		cfg:       deps.Cfg,
		relay:     deps.Relay,
		chat2:     deps.Chat2,
		chats:     deps.Chats,
		reactions: deps.Reactions,
		notifier:  deps.Notifier,
	}

	e := echo.New()
	e.POST("/login", s.handleLogin)

	authed := e.Group("", s.requireSession)
	authed.GET("/chat", s.handleListChats)
	authed.GET("/submit", s.handleSubmit)
	authed.POST("/submit_chat2", s.handleSubmitChat2)
	authed.POST("/react", s.handleReact)
	authed.POST("/reset", s.handleReset)

	return e
}
