package service

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"

	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/domain"
)

// Stream is a finite, non-restartable sequence of completion fragments.
// Callers iterate with Next/Content, check Err once Next returns false,
// and must Close when done (including on early abandonment).
type Stream interface {
	Next() bool
	Content() string
	Err() error
	Close() error
}

// CompletionClient produces a streamed completion for a prompt plus its
// prior conversation history.
type CompletionClient interface {
	StreamCompletion(ctx context.Context, messages []domain.Message, maxTokens int) (Stream, error)
}

// TGIClient talks to an OpenAI-compatible text-generation-inference
// endpoint.
type TGIClient struct {
	client openai.Client
	model  string
}

func NewTGIClient(baseURL, apiKey string) *TGIClient {
	httpClient := &http.Client{Timeout: config.RequestTimeout}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)
	return &TGIClient{client: client, model: config.StreamModel}
}

func (c *TGIClient) StreamCompletion(ctx context.Context, messages []domain.Message, maxTokens int) (Stream, error) {
	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.model),
		MaxTokens: openai.Int(int64(maxTokens)),
	}
	for _, m := range messages {
		param, err := toMessageParam(m)
		if err != nil {
			return nil, err
		}
		params.Messages = append(params.Messages, param)
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("open completion stream: %w", err)
	}
	return &tgiStream{stream: stream}, nil
}

type tgiStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *tgiStream) Next() bool {
	return s.stream.Next()
}

func (s *tgiStream) Content() string {
	chunk := s.stream.Current()
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

func (s *tgiStream) Err() error {
	return s.stream.Err()
}

func (s *tgiStream) Close() error {
	return s.stream.Close()
}

func toMessageParam(m domain.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case domain.RoleUser:
		return openai.UserMessage(m.Content), nil
	case domain.RoleAssistant:
		return openai.AssistantMessage(m.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("%w: unsupported role %q", domain.ErrInvalidHistory, m.Role)
	}
}

var _ CompletionClient = (*TGIClient)(nil)
