package driver

import (
	"context"
	"fmt"

	"github.com/agenthands/casefile/internal/core/model"
)

// Mirror keeps a copy of the board graph in Memgraph under one session id so
// it can be explored with Cypher. Every Sync replaces the session's graph.
type Mirror struct {
	Driver    GraphDriver
	SessionID string
}

func NewMirror(d GraphDriver, sessionID string) *Mirror {
	return &Mirror{Driver: d, SessionID: sessionID}
}

func (m *Mirror) Sync(ctx context.Context, board model.Board) error {
	if err := m.Clear(ctx); err != nil {
		return err
	}

	var docs, entities []map[string]any
	for _, n := range board.Nodes {
		if n.Type == model.DocumentNodeType {
			docs = append(docs, map[string]any{
				"id":        n.ID,
				"name":      n.Name,
				"community": int64(n.Community),
			})
			continue
		}
		sources := make([]any, len(n.SourceDocIDs))
		for i, id := range n.SourceDocIDs {
			sources[i] = id
		}
		entities = append(entities, map[string]any{
			"id":             n.ID,
			"name":           n.Name,
			"category":       n.Type,
			"context":        n.Context,
			"source_doc_ids": sources,
			"community":      int64(n.Community),
		})
	}

	links := make([]map[string]any, len(board.Links))
	for i, l := range board.Links {
		links[i] = map[string]any{
			"source": l.Source,
			"target": l.Target,
			"value":  int64(l.Value),
		}
	}

	steps := []struct {
		name   string
		query  string
		key    string
		values []map[string]any
	}{
		{"documents", SaveDocumentNodesQuery, "nodes", docs},
		{"entities", SaveEntityNodesQuery, "nodes", entities},
		{"mentions", SaveMentionEdgesQuery, "links", links},
	}
	for _, s := range steps {
		if len(s.values) == 0 {
			continue
		}
		params := map[string]any{
			"session_id": m.SessionID,
			s.key:        toAnySlice(s.values),
		}
		if _, err := m.Driver.ExecuteQuery(ctx, s.query, params); err != nil {
			return fmt.Errorf("failed to save %s: %w", s.name, err)
		}
	}
	return nil
}

// Clear removes every node of the session.
func (m *Mirror) Clear(ctx context.Context) error {
	if _, err := m.Driver.ExecuteQuery(ctx, ClearSessionQuery, map[string]any{"session_id": m.SessionID}); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", m.SessionID, err)
	}
	return nil
}

func toAnySlice(values []map[string]any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
