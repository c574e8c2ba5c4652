package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vesturport/spjall/internal/service"
)

func TestEventEncode(t *testing.T) {
	tests := []struct {
		name  string
		event service.Event
		want  string
	}{
		{
			name:  "fragment",
			event: service.Event{Kind: service.EventData, Fragment: "Halló"},
			want:  "data: Halló\n\n",
		},
		{
			name:  "fragment with newlines",
			event: service.Event{Kind: service.EventData, Fragment: "line one\nline two\n"},
			want:  "data: line one<br>line two<br>\n\n",
		},
		{
			name:  "success marker",
			event: service.Event{Kind: service.EventDone, TurnID: 42},
			want:  "data: [DONE]42\n\n",
		},
		{
			name:  "terminal sentinel",
			event: service.Event{Kind: service.EventDone},
			want:  "data: [DONE]\n\n",
		},
		{
			name:  "error",
			event: service.Event{Kind: service.EventError, Err: errors.New("upstream unavailable")},
			want:  "data: Error: upstream unavailable\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Encode())
		})
	}
}
