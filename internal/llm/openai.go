package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/agenthands/casefile/internal/loader"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string, model string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	}, nil)
}

// GenerateWithDocument sends images as data URLs and every other supported
// type as extracted text.
func (c *OpenAIClient) GenerateWithDocument(ctx context.Context, prompt string, doc Document, schema *Schema) (string, error) {
	var msg openai.ChatCompletionMessage

	if strings.HasPrefix(doc.MimeType, "image/") {
		dataURL := fmt.Sprintf("data:%s;base64,%s", doc.MimeType, base64.StdEncoding.EncodeToString(doc.Data))
		msg = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}
	} else {
		text, err := loader.Text(doc.MimeType, doc.Data)
		if err != nil {
			return "", err
		}
		msg = openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("%s\n\n<DOCUMENT name=%q>\n%s\n</DOCUMENT>", prompt, doc.Name, text),
		}
	}

	var format *openai.ChatCompletionResponseFormat
	if schema != nil {
		format = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "analysis",
				Schema: schema,
			},
		}
	}
	return c.complete(ctx, msg, format)
}

func (c *OpenAIClient) complete(ctx context.Context, msg openai.ChatCompletionMessage, format *openai.ChatCompletionResponseFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       []openai.ChatCompletionMessage{msg},
		ResponseFormat: format,
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
