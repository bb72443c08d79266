package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agenthands/casefile/internal/loader"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// GenerateWithDocument passes PDFs, images and plain text inline; other
// formats are converted to text first.
func (c *GeminiClient) GenerateWithDocument(ctx context.Context, prompt string, doc Document, schema *Schema) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
	}

	var part genai.Part
	if geminiInline(doc.MimeType) {
		part = genai.Blob{MIMEType: doc.MimeType, Data: doc.Data}
	} else {
		text, err := loader.Text(doc.MimeType, doc.Data)
		if err != nil {
			return "", err
		}
		part = genai.Text(text)
	}

	resp, err := model.GenerateContent(ctx, part, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func geminiInline(mimeType string) bool {
	return mimeType == "application/pdf" ||
		strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "text/")
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
