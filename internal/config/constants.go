package config

import "time"

const (
	// Streaming completion budget per request
	MaxCompletionTokens = 100

	// Model name exposed by the TGI endpoint
	StreamModel = "tgi"

	// Model tags persisted on AI turns
	ModelTagStream = "Model 1"
	ModelTagChat2  = "Model 2"

	// Templated (chat2) generation parameters
	Chat2MaxNewTokens = 30
	Chat2Temperature  = 1.0

	// Upstream request timeout (covers the whole stream)
	RequestTimeout = 90 * time.Second

	// Session cookie
	SessionCookieName = "spjall_session"
	SessionTTL        = 7 * 24 * time.Hour

	// Graceful shutdown
	ServerShutdownTimeout = 10 * time.Second
)
