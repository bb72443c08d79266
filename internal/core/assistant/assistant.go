// Package assistant answers questions about the analyzed case files.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/llm"
	"github.com/agenthands/casefile/internal/logger"
)

const (
	NoResponseMessage = "I could not generate a response."
	ErrorMessage      = "Error communicating with the assistant."
)

// ContextFile is what the assistant knows about one analyzed document.
type ContextFile struct {
	Name          string
	Summary       string
	ExtractedData string
}

type Assistant struct {
	LLM    llm.LLMClient
	Prompt string
	now    func() time.Time
}

func NewAssistant(client llm.LLMClient, prompt string) *Assistant {
	return &Assistant{
		LLM:    client,
		Prompt: prompt,
		now:    time.Now,
	}
}

// BuildContext describes every analyzed file together with the entities that
// cite it, in upload order.
func BuildContext(files []model.CaseFile, entities []model.Entity) []ContextFile {
	var out []ContextFile
	for _, f := range files {
		if f.Status != model.FileStatusAnalyzed {
			continue
		}
		var mentions []string
		for _, e := range entities {
			if e.HasSource(f.ID) {
				mentions = append(mentions, fmt.Sprintf("%s (%s)", e.Name, e.Category))
			}
		}
		out = append(out, ContextFile{
			Name:          f.Name,
			Summary:       f.Summary,
			ExtractedData: strings.Join(mentions, ", "),
		})
	}
	return out
}

// Ask never fails: model errors and empty answers become fixed messages.
func (a *Assistant) Ask(ctx context.Context, query string, files []ContextFile) string {
	sections := make([]string, len(files))
	for i, f := range files {
		sections[i] = fmt.Sprintf("File: %s\nSummary: %s\nEntities Found: %s", f.Name, f.Summary, f.ExtractedData)
	}

	prompt := fmt.Sprintf(a.Prompt, a.now().UTC().Format(time.RFC3339), strings.Join(sections, "\n---\n"), query)

	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		logger.Error("chat failed", "err", err)
		return ErrorMessage
	}
	if strings.TrimSpace(response) == "" {
		return NoResponseMessage
	}
	return response
}
