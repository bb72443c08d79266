package config

import (
	"errors"
	"fmt"
)

var ErrPromptVerbs = errors.New("prompt has the wrong number of format verbs")

// Validate checks that each template takes exactly the arguments it is
// formatted with: the document name for extraction; the date, the context
// and the question for the assistant.
func (p Prompts) Validate() error {
	if n := countVerbs(p.Extraction); n != 1 {
		return fmt.Errorf("%w: extraction wants 1, got %d", ErrPromptVerbs, n)
	}
	if n := countVerbs(p.Assistant); n != 3 {
		return fmt.Errorf("%w: assistant wants 3, got %d", ErrPromptVerbs, n)
	}
	return nil
}

// countVerbs counts fmt verbs, skipping "%%" escapes.
func countVerbs(tmpl string) int {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 < len(tmpl) && tmpl[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

// DefaultExtractionPrompt takes the document name.
const DefaultExtractionPrompt = `Analyze the following document: "%s".

Tasks:
1. Extract key entities: People, Organizations, Locations, Dates, and significant Events.
   Use exactly one of these types: PERSON, ORGANIZATION, LOCATION, DATE, EVENT.
2. For Dates, normalize them to YYYY-MM-DD format in the "normalizedDate" field.
3. For every entity, provide a specific 1-sentence context snippet from the text where this entity appears.
4. Provide a concise 1-sentence summary of the document.

Return JSON only, in this shape:
{"summary": "...", "entities": [{"name": "...", "type": "PERSON", "context": "...", "normalizedDate": "YYYY-MM-DD"}]}`

// DefaultAssistantPrompt takes the current date, the case file context and
// the user question.
const DefaultAssistantPrompt = `You are "DeepSource Assistant", an investigative journalism aid.
You have access to the metadata and extracted entities of the user's uploaded case files.
Answer questions based strictly on the provided context.
If the answer is not in the context, state that you don't have that information in the uploaded files.
Keep answers concise, professional, and objective (Journalistic Tone).
Date: %s

Context:
%s

User Question: %s`
