// Package projection derives view data from workspace snapshots. Every
// function here is pure: inputs are never modified and equal inputs give
// equal outputs.
package projection

import (
	"github.com/agenthands/casefile/internal/core/filter"
	"github.com/agenthands/casefile/internal/core/model"
)

// Board builds the node/link set of the investigation board.
//
// Analyzed documents become DOCUMENT nodes in upload order. An entity is shown
// when its category is visible and at least one of its source documents is
// analyzed; it is linked to each of those documents only, so every link
// endpoint is an emitted node.
func Board(files []model.CaseFile, entities []model.Entity, filters filter.Snapshot) model.Board {
	board := model.Board{
		Nodes: []model.GraphNode{},
		Links: []model.GraphLink{},
	}

	analyzed := make(map[string]bool)
	for _, f := range files {
		if f.Status != model.FileStatusAnalyzed {
			continue
		}
		analyzed[f.ID] = true
		board.Nodes = append(board.Nodes, model.GraphNode{
			ID:      f.ID,
			Type:    model.DocumentNodeType,
			Name:    f.Name,
			Group:   model.DocumentGroup,
			Val:     model.DocumentWeight,
			Context: f.Summary,
		})
	}

	for _, e := range entities {
		if !filters.Visible(e.Category) {
			continue
		}

		var activeDocs []string
		for _, id := range e.SourceDocIDs {
			if analyzed[id] {
				activeDocs = append(activeDocs, id)
			}
		}
		if len(activeDocs) == 0 {
			continue
		}

		board.Nodes = append(board.Nodes, model.GraphNode{
			ID:           e.ID,
			Type:         string(e.Category),
			Name:         e.Name,
			Group:        model.EntityGroup,
			Val:          model.EntityWeight,
			Context:      e.Context,
			SourceDocIDs: append([]string(nil), e.SourceDocIDs...),
		})
		for _, docID := range activeDocs {
			board.Links = append(board.Links, model.GraphLink{
				Source: docID,
				Target: e.ID,
				Value:  1,
			})
		}
	}

	return board
}
