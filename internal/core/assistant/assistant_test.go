package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/casefile/internal/config"
	"github.com/agenthands/casefile/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContextOnlyAnalyzedFiles(t *testing.T) {
	files := []model.CaseFile{
		{ID: "a", Name: "a.pdf", Status: model.FileStatusAnalyzed, Summary: "About Jane."},
		{ID: "b", Name: "b.pdf", Status: model.FileStatusAnalyzing},
		{ID: "c", Name: "c.pdf", Status: model.FileStatusError},
		{ID: "d", Name: "d.pdf", Status: model.FileStatusAnalyzed, Summary: "Nothing found."},
	}
	entities := []model.Entity{
		{Name: "Jane Doe", Category: model.CategoryPerson, SourceDocIDs: []string{"a", "b"}},
		{Name: "Paris", Category: model.CategoryLocation, SourceDocIDs: []string{"a"}},
	}

	got := BuildContext(files, entities)

	require.Len(t, got, 2)
	assert.Equal(t, ContextFile{Name: "a.pdf", Summary: "About Jane.", ExtractedData: "Jane Doe (PERSON), Paris (LOCATION)"}, got[0])
	assert.Equal(t, ContextFile{Name: "d.pdf", Summary: "Nothing found."}, got[1])
}

func TestAskBuildsPrompt(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "Jane Doe signed it."}
	a := NewAssistant(mockLLM, config.DefaultAssistantPrompt)
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	answer := a.Ask(context.Background(), "Who signed the lease?", []ContextFile{
		{Name: "lease.pdf", Summary: "A lease.", ExtractedData: "Jane Doe (PERSON)"},
		{Name: "memo.txt", Summary: "A memo.", ExtractedData: ""},
	})

	assert.Equal(t, "Jane Doe signed it.", answer)
	assert.Contains(t, mockLLM.LastPrompt, "Date: 2024-05-01T12:00:00Z")
	assert.Contains(t, mockLLM.LastPrompt, "File: lease.pdf\nSummary: A lease.\nEntities Found: Jane Doe (PERSON)\n---\nFile: memo.txt")
	assert.Contains(t, mockLLM.LastPrompt, "User Question: Who signed the lease?")
}

func TestAskFallbacks(t *testing.T) {
	a := NewAssistant(&MockLLMClient{Err: errors.New("timeout")}, config.DefaultAssistantPrompt)
	assert.Equal(t, ErrorMessage, a.Ask(context.Background(), "q", nil))

	a = NewAssistant(&MockLLMClient{Response: "  "}, config.DefaultAssistantPrompt)
	assert.Equal(t, NoResponseMessage, a.Ask(context.Background(), "q", nil))
}
