package dedupe

import (
	"strings"

	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/core/store"
	"github.com/agenthands/casefile/internal/logger"
)

// Merger folds one document's extracted entities into the entity store.
//
// Two mentions are the same entity when their trimmed, lowercased names and
// their categories match exactly. There is no alias or fuzzy matching, so
// "Bob Smith" and "Robert Smith" stay separate.
type Merger struct {
	Store *store.Store
}

func NewMerger(s *store.Store) *Merger {
	return &Merger{
		Store: s,
	}
}

// Merge applies every extracted entity in the order given. It must only be
// called for a document whose extraction succeeded.
func (m *Merger) Merge(docID string, extracted []model.ExtractedEntity) model.MergeStats {
	var stats model.MergeStats

	for _, x := range extracted {
		category, ok := model.ParseCategory(x.Category)
		if !ok {
			logger.Warn("skipping entity with unknown category", "doc", docID, "name", x.Name, "category", x.Category)
			stats.Skipped++
			continue
		}
		name := strings.TrimSpace(x.Name)
		if name == "" {
			logger.Warn("skipping entity with empty name", "doc", docID, "category", category)
			stats.Skipped++
			continue
		}

		normalizedDate := ""
		if category == model.CategoryDate {
			normalizedDate = strings.TrimSpace(x.NormalizedDate)
		}
		context := strings.TrimSpace(x.Context)

		existing := m.Store.Lookup(model.NewEntityKey(name, category))
		if existing == nil {
			m.Store.Insert(model.Entity{
				Name:           name,
				Category:       category,
				SourceDocIDs:   []string{docID},
				Context:        context,
				NormalizedDate: normalizedDate,
			})
			stats.Created++
			continue
		}

		if !existing.HasSource(docID) {
			existing.SourceDocIDs = append(existing.SourceDocIDs, docID)
		}
		if existing.NormalizedDate == "" && normalizedDate != "" {
			existing.NormalizedDate = normalizedDate
		}
		if existing.Context == "" && context != "" {
			existing.Context = context
		}
		stats.Updated++
	}

	return stats
}
