package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/domain"
	"github.com/vesturport/spjall/internal/service"
)

// strictPolicy strips all markup from inbound user text before it is
// persisted or forwarded upstream.
var strictPolicy = bluemonday.StrictPolicy()

type chatResponse struct {
	ID         int64  `json:"id"`
	UserInput  string `json:"userInput,omitempty"`
	AIResponse string `json:"aiResponse,omitempty"`
	AIModel    string `json:"aiModel,omitempty"`
	CreatedTs  int64  `json:"createdTs"`
}

// handleListChats returns the active conversation window, oldest first,
// with AI responses rendered to sanitized HTML.
func (s *Server) handleListChats(c *echo.Context) error {
	turns, err := s.chats.ListActive(c.Request().Context())
	if err != nil {
		slog.Error("list active turns", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load conversation")
	}

	resp := make([]chatResponse, 0, len(turns))
	for _, t := range turns {
		item := chatResponse{ID: t.ID, CreatedTs: t.CreatedAt.Unix()}
		if t.UserInput != nil {
			item.UserInput = *t.UserInput
		}
		if t.AIResponse != nil {
			html, err := service.RenderMarkdown(*t.AIResponse)
			if err != nil {
				slog.Error("render ai response", "turn_id", t.ID, "error", err)
				html = *t.AIResponse
			}
			item.AIResponse = html
		}
		if t.AIModel != nil {
			item.AIModel = *t.AIModel
		}
		resp = append(resp, item)
	}
	return c.JSON(http.StatusOK, resp)
}

// handleSubmit is the streaming relay endpoint. GET with query params so
// the browser side can use a plain EventSource.
func (s *Server) handleSubmit(c *echo.Context) error {
	prompt := strings.TrimSpace(strictPolicy.Sanitize(c.QueryParam("prompt")))
	if prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt required")
	}
	history, err := domain.ParseHistory(c.QueryParam("history"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	slog.Info("prompt submitted", "length", len(prompt), "history", len(history))

	// The prompt persist happens before any streaming; its failure is a
	// hard error, not a stream event.
	events, err := s.relay.Submit(ctx, prompt, history)
	if err != nil {
		slog.Error("submit prompt", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record prompt")
	}

	rw := c.Response()
	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")
	rw.Header().Set("X-Accel-Buffering", "no")
	rw.WriteHeader(http.StatusOK)

	for ev := range events {
		if ev.Kind == service.EventError {
			s.notifier.Error("stream completion", ev.Err)
		}
		fmt.Fprint(rw, ev.Encode())
		if f, ok := rw.(http.Flusher); ok {
			f.Flush()
		}
	}
	return nil
}

type chat2Request struct {
	Prompt  string           `json:"prompt"`
	History []domain.Message `json:"history"`
}

// handleSubmitChat2 is the non-streaming templated endpoint: one blocking
// upstream call, one persisted AI turn, one JSON response.
func (s *Server) handleSubmitChat2(c *echo.Context) error {
	var req chat2Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	prompt := strings.TrimSpace(strictPolicy.Sanitize(req.Prompt))
	if prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt required")
	}
	if err := domain.ValidateHistory(req.History); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	slog.Info("chat2 prompt submitted", "length", len(prompt), "history", len(req.History))

	answer, err := s.chat2.Complete(ctx, prompt, req.History)
	if err != nil {
		slog.Error("chat2 completion", "error", err)
		s.notifier.Error("templated completion", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	turn, err := s.chats.CreateAITurn(ctx, answer, config.ModelTagChat2)
	if err != nil {
		slog.Error("persist chat2 response", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to record response"})
	}

	slog.Info("chat2 response persisted", "turn_id", turn.ID, "length", len(answer))
	return c.JSON(http.StatusOK, map[string]string{"response": answer})
}

// handleReact records an emoji against a prior turn.
func (s *Server) handleReact(c *echo.Context) error {
	chatID, err := strconv.ParseInt(c.FormValue("chat_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat_id")
	}
	emoji := strings.TrimSpace(strictPolicy.Sanitize(c.FormValue("emoji")))
	if emoji == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "emoji required")
	}
	isAITurn := c.FormValue("is_ai_message") == "true"

	if _, err := s.reactions.Create(c.Request().Context(), chatID, emoji, isAITurn); err != nil {
		if errors.Is(err, domain.ErrTurnNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "turn not found")
		}
		slog.Error("create reaction", "chat_id", chatID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record reaction")
	}

	slog.Info("reaction recorded", "chat_id", chatID, "emoji", emoji, "ai_turn", isAITurn)
	return c.NoContent(http.StatusNoContent)
}

// handleReset hides the whole visible conversation. Idempotent.
func (s *Server) handleReset(c *echo.Context) error {
	if err := s.chats.DeactivateAll(c.Request().Context()); err != nil {
		slog.Error("reset conversation", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset conversation")
	}
	slog.Info("conversation reset")
	return c.NoContent(http.StatusNoContent)
}
