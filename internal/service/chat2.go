package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/domain"
)

// chat2Preamble is the few-shot opener establishing a two-person Icelandic
// dialogue the model is asked to continue.
const chat2Preamble = "Hér má sjá skemmtilegt samtal milli tveggja einstaklinga. \n\nJóna: Hæ, hvað segir þú?\n\nGunnar: Ég segi bara allt gott!\n\n"

// TemplatedClient is the non-streaming completion variant: it flattens
// the conversation into a single templated text blob, makes one blocking
// call to a Hugging Face inference endpoint, and returns one complete
// reply.
type TemplatedClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewTemplatedClient(apiURL, apiKey string) *TemplatedClient {
	return &TemplatedClient{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type inferenceParameters struct {
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

// Complete renders the template, calls the upstream model once and
// post-processes its echo-prone output down to a single reply.
func (c *TemplatedClient) Complete(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	conversation := renderConversation(prompt, history)

	payload, err := json.Marshal(inferenceRequest{
		Inputs: conversation,
		Parameters: inferenceParameters{
			Temperature:  config.Chat2Temperature,
			MaxNewTokens: config.Chat2MaxNewTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference returned status %d", resp.StatusCode)
	}

	var result []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("empty completion payload")
	}

	// The model echoes the whole templated prompt before its continuation,
	// then keeps writing both sides of the dialogue. Strip the echo and
	// keep only the first line of the continuation. Known limitation: a
	// legitimate multi-line single-turn reply gets cut at its first
	// newline too.
	answer := strings.Replace(result[0].GeneratedText, conversation, "", 1)
	answer = strings.TrimSpace(answer)
	if i := strings.Index(answer, "\n"); i >= 0 {
		answer = answer[:i]
	}
	return strings.TrimSpace(answer), nil
}

func renderConversation(prompt string, history []domain.Message) string {
	var sb strings.Builder
	sb.WriteString(chat2Preamble)
	for _, m := range history {
		if m.Role == domain.RoleUser {
			sb.WriteString("Jóna: " + m.Content + "\n\n")
		} else {
			sb.WriteString("Gunnar: " + m.Content + "\n\n")
		}
	}
	sb.WriteString("Jóna: " + prompt + "\n\nGunnar:")
	return sb.String()
}
