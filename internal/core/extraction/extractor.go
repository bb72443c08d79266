package extraction

import (
	"context"
	"fmt"

	"github.com/agenthands/casefile/internal/core/common"
	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/llm"
)

// Extractor asks the model for a summary and the entities of one document.
type Extractor struct {
	LLM    llm.DocumentClient
	Prompt string
	schema *llm.Schema
}

func NewExtractor(client llm.DocumentClient, prompt string) *Extractor {
	return &Extractor{
		LLM:    client,
		Prompt: prompt,
		schema: llm.SchemaFor(model.AnalysisResult{}),
	}
}

// Analyze runs extraction for one document. Any error means nothing from this
// document may be merged.
func (e *Extractor) Analyze(ctx context.Context, doc llm.Document) (model.AnalysisResult, error) {
	prompt := fmt.Sprintf(e.Prompt, doc.Name)

	response, err := e.LLM.GenerateWithDocument(ctx, prompt, doc, e.schema)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("failed to analyze %s: %w", doc.Name, err)
	}

	result, err := common.ParseJSON[model.AnalysisResult](response)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("failed to parse analysis of %s: %w", doc.Name, err)
	}

	return result, nil
}
