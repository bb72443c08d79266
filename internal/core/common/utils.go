package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text, and
// falls back to repairing malformed JSON (trailing commas, unquoted keys,
// truncated output) before giving up.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := strings.TrimSpace(response)

	// Find first '{' and last '}'
	start := strings.IndexByte(jsonStr, '{')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(jsonStr, '}')
	if end > start {
		jsonStr = jsonStr[start : end+1]
	} else {
		jsonStr = jsonStr[start:]
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
		return result, nil
	}

	repaired, err := jsonrepair.JSONRepair(jsonStr)
	if err != nil {
		return zero, fmt.Errorf("failed to repair JSON: %w\nData: %s", err, jsonStr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, repaired)
	}

	return result, nil
}
