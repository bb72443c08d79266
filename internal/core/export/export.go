// Package export renders the session as a downloadable investigation file.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/agenthands/casefile/internal/core/model"
)

// Version is bumped whenever the layout of Document changes.
const Version = 1

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type File struct {
	Name    string  `json:"name" msgpack:"name"`
	Summary *string `json:"summary" msgpack:"summary"`
}

type Document struct {
	Version   int            `json:"version" msgpack:"version"`
	Timestamp string         `json:"timestamp" msgpack:"timestamp"`
	Files     []File         `json:"files" msgpack:"files"`
	Entities  []model.Entity `json:"entities" msgpack:"entities"`
}

// Build snapshots files and entities. Files that are not analyzed export a
// null summary.
func Build(files []model.CaseFile, entities []model.Entity, now time.Time) Document {
	doc := Document{
		Version:   Version,
		Timestamp: now.UTC().Format(timestampLayout),
		Files:     make([]File, 0, len(files)),
		Entities:  make([]model.Entity, 0, len(entities)),
	}
	for _, f := range files {
		out := File{Name: f.Name}
		if f.Status == model.FileStatusAnalyzed {
			summary := f.Summary
			out.Summary = &summary
		}
		doc.Files = append(doc.Files, out)
	}
	for _, e := range entities {
		doc.Entities = append(doc.Entities, e.Clone())
	}
	return doc
}

func (d Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func (d Document) Msgpack() ([]byte, error) {
	return msgpack.Marshal(d)
}

// FileName is the suggested download name, e.g.
// deepsource-investigation-1714564800000.json.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("deepsource-investigation-%d.%s", now.UnixMilli(), ext)
}
