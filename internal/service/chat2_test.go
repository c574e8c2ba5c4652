package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesturport/spjall/internal/domain"
	"github.com/vesturport/spjall/internal/service"
)

type inferenceCall struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		Temperature  float64 `json:"temperature"`
		MaxNewTokens int     `json:"max_new_tokens"`
	} `json:"parameters"`
}

// newInferenceServer fakes the upstream endpoint: it records the request
// and replies with reply(inputs) as the generated text.
func newInferenceServer(t *testing.T, reply func(inputs string) string) (*httptest.Server, *inferenceCall) {
	t.Helper()
	var call inferenceCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		out := []map[string]string{{"generated_text": reply(call.Inputs)}}
		json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(srv.Close)
	return srv, &call
}

func TestCompleteRendersTemplate(t *testing.T) {
	srv, call := newInferenceServer(t, func(inputs string) string {
		return inputs + " Allt fínt hjá mér!"
	})
	client := service.NewTemplatedClient(srv.URL, "hf-test-key")

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "Hæ Gunnar"},
		{Role: domain.RoleAssistant, Content: "Hæ Jóna"},
	}
	answer, err := client.Complete(context.Background(), "Hvernig hefur þú það?", history)
	require.NoError(t, err)
	assert.Equal(t, "Allt fínt hjá mér!", answer)

	assert.True(t, strings.HasPrefix(call.Inputs, "Hér má sjá skemmtilegt samtal"))
	assert.Contains(t, call.Inputs, "Jóna: Hæ Gunnar\n\n")
	assert.Contains(t, call.Inputs, "Gunnar: Hæ Jóna\n\n")
	assert.True(t, strings.HasSuffix(call.Inputs, "Jóna: Hvernig hefur þú það?\n\nGunnar:"))
	assert.Equal(t, 1.0, call.Parameters.Temperature)
	assert.Equal(t, 30, call.Parameters.MaxNewTokens)
}

func TestCompleteTruncatesRunawayDialogue(t *testing.T) {
	srv, _ := newInferenceServer(t, func(inputs string) string {
		return inputs + " Bara fínt.\n\nJóna: En þú?\n\nGunnar: Líka fínt."
	})
	client := service.NewTemplatedClient(srv.URL, "hf-test-key")

	answer, err := client.Complete(context.Background(), "Hvað segirðu?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bara fínt.", answer, "everything past the first reply line is dropped")
}

func TestCompleteWithoutEcho(t *testing.T) {
	// Some endpoints return only the continuation, without echoing the prompt.
	srv, _ := newInferenceServer(t, func(string) string {
		return " Gott að heyra."
	})
	client := service.NewTemplatedClient(srv.URL, "hf-test-key")

	answer, err := client.Complete(context.Background(), "Hæ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Gott að heyra.", answer)
}

func TestCompleteUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client := service.NewTemplatedClient(srv.URL, "hf-test-key")

	_, err := client.Complete(context.Background(), "Hæ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestCompleteEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(srv.Close)
	client := service.NewTemplatedClient(srv.URL, "hf-test-key")

	_, err := client.Complete(context.Background(), "Hæ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion payload")
}
