package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var sanitizePolicy = newSanitizePolicy()

func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "code", "pre",
	)
	p.AllowAttrs("class").Globally()
	return p
}

// RenderMarkdown converts an AI response to HTML and strips everything
// outside the allowed tag set before it reaches the browser.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizePolicy.Sanitize(buf.String()), nil
}
