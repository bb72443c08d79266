package model

import (
	"regexp"
	"strings"
	"time"
)

// Category classifies an extracted entity.
type Category string

const (
	CategoryPerson       Category = "PERSON"
	CategoryOrganization Category = "ORGANIZATION"
	CategoryLocation     Category = "LOCATION"
	CategoryDate         Category = "DATE"
	CategoryEvent        Category = "EVENT"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPerson,
	CategoryOrganization,
	CategoryLocation,
	CategoryDate,
	CategoryEvent,
}

// ParseCategory accepts any casing and surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// FileStatus is the lifecycle state of an uploaded document.
type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusAnalyzing FileStatus = "analyzing"
	FileStatusAnalyzed  FileStatus = "analyzed"
	FileStatusError     FileStatus = "error"
)

// Terminal reports whether no further transition is allowed.
func (s FileStatus) Terminal() bool {
	return s == FileStatusAnalyzed || s == FileStatusError
}

// CanTransition reports whether moving from s to next is a forward step.
func (s FileStatus) CanTransition(next FileStatus) bool {
	switch s {
	case FileStatusPending:
		return next == FileStatusAnalyzing || next == FileStatusError
	case FileStatusAnalyzing:
		return next == FileStatusAnalyzed || next == FileStatusError
	default:
		return false
	}
}

type CaseFile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	MimeType   string     `json:"mimeType"`
	Data       []byte     `json:"-"`
	Size       int        `json:"size"`
	Summary    string     `json:"summary,omitempty"`
	Error      string     `json:"error,omitempty"`
	UploadedAt time.Time  `json:"uploadDate"`
	Status     FileStatus `json:"status"`
}

// EntityKey is the dedup identity of an entity: normalised name plus category.
type EntityKey struct {
	Name     string
	Category Category
}

// NewEntityKey lowercases and trims the display name.
func NewEntityKey(name string, category Category) EntityKey {
	return EntityKey{
		Name:     strings.ToLower(strings.TrimSpace(name)),
		Category: category,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// ID renders the key as a readable node id, e.g. "person:jane-doe". Distinct
// keys such as "jane doe" and "jane-doe" render the same; the entity store
// assigns a numbered variant to the later one.
func (k EntityKey) ID() string {
	return strings.ToLower(string(k.Category)) + ":" + whitespace.ReplaceAllString(k.Name, "-")
}

type Entity struct {
	ID             string   `json:"id" msgpack:"id"`
	Name           string   `json:"name" msgpack:"name"`
	Category       Category `json:"type" msgpack:"type"`
	SourceDocIDs   []string `json:"sourceDocIds" msgpack:"sourceDocIds"`
	Context        string   `json:"context,omitempty" msgpack:"context,omitempty"`
	NormalizedDate string   `json:"normalizedDate,omitempty" msgpack:"normalizedDate,omitempty"`
}

// Key recomputes the dedup key from the display name.
func (e Entity) Key() EntityKey {
	return NewEntityKey(e.Name, e.Category)
}

// HasSource reports whether docID is already recorded.
func (e Entity) HasSource(docID string) bool {
	for _, id := range e.SourceDocIDs {
		if id == docID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with e.
func (e Entity) Clone() Entity {
	e.SourceDocIDs = append([]string(nil), e.SourceDocIDs...)
	return e
}
