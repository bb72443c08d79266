package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("no response from model")

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Document is a binary attachment sent alongside a prompt.
type Document struct {
	Name     string
	MimeType string
	Data     []byte
}

// DocumentClient answers a prompt about an attached document. When schema is
// non-nil the provider is asked for JSON matching it, where supported.
type DocumentClient interface {
	GenerateWithDocument(ctx context.Context, prompt string, doc Document, schema *Schema) (string, error)
}

type Client interface {
	LLMClient
	DocumentClient
}
