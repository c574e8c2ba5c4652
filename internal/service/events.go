package service

import (
	"fmt"
	"strings"
)

type EventKind int

const (
	// EventData carries one upstream fragment.
	EventData EventKind = iota
	// EventDone is the success marker (TurnID > 0) or, with TurnID zero,
	// the terminal end-of-stream sentinel emitted on every request.
	EventDone
	// EventError carries an upstream or persistence failure.
	EventError
)

// Event is one unit of the outbound server-push stream.
type Event struct {
	Kind     EventKind
	Fragment string
	TurnID   int64
	Err      error
}

// Encode renders the event in the wire format the browser listens for:
// one "data: <payload>" line terminated by a blank line. The framing is
// single-line-per-event, so literal newlines inside a fragment are
// re-encoded as <br> before emission.
func (e Event) Encode() string {
	switch e.Kind {
	case EventData:
		return "data: " + strings.ReplaceAll(e.Fragment, "\n", "<br>") + "\n\n"
	case EventError:
		return "data: Error: " + e.Err.Error() + "\n\n"
	default:
		if e.TurnID > 0 {
			return fmt.Sprintf("data: [DONE]%d\n\n", e.TurnID)
		}
		return "data: [DONE]\n\n"
	}
}
