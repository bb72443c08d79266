package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/agenthands/casefile/internal/loader"
)

const defaultClaudeMaxTokens = 4096

type ClaudeClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewClaudeClient(apiKey string, model string, baseURL string, maxTokens int) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	return &ClaudeClient{
		client:    anthropic.NewClient(apiKey, opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil && *resp.Content[0].Text != "" {
		return *resp.Content[0].Text, nil
	}
	return "", ErrEmptyResponse
}

// GenerateWithDocument inlines the document as text; the schema is only
// conveyed through the prompt.
func (c *ClaudeClient) GenerateWithDocument(ctx context.Context, prompt string, doc Document, schema *Schema) (string, error) {
	text, err := loader.Text(doc.MimeType, doc.Data)
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, fmt.Sprintf("<DOCUMENT name=%q>\n%s\n</DOCUMENT>\n\n%s", doc.Name, text, prompt))
}
