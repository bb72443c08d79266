package model

// ExtractedEntity is one entity mention returned by the extraction oracle.
type ExtractedEntity struct {
	Name           string `json:"name" jsonschema_description:"Name of the entity as written in the document"`
	Category       string `json:"type" jsonschema:"enum=PERSON,enum=ORGANIZATION,enum=LOCATION,enum=DATE,enum=EVENT"`
	Context        string `json:"context" jsonschema_description:"One sentence from the document where the entity appears"`
	NormalizedDate string `json:"normalizedDate,omitempty" jsonschema_description:"For DATE entities, the date normalised to YYYY-MM-DD"`
}

// AnalysisResult is the full answer of the extraction oracle for one document.
type AnalysisResult struct {
	Summary  string            `json:"summary" jsonschema_description:"Concise one sentence summary of the document"`
	Entities []ExtractedEntity `json:"entities"`
}

// MergeStats reports what a single merge did to the entity store.
type MergeStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
