package extraction

import (
	"context"

	"github.com/agenthands/casefile/internal/llm"
)

type MockLLMClient struct {
	Response string
	Err      error

	LastPrompt string
	LastDoc    llm.Document
}

func (m *MockLLMClient) GenerateWithDocument(ctx context.Context, prompt string, doc llm.Document, schema *llm.Schema) (string, error) {
	m.LastPrompt = prompt
	m.LastDoc = doc
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
