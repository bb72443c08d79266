package projection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/agenthands/casefile/internal/core/model"
)

// Timeline orders DATE entities chronologically.
//
// The sort instant comes from NormalizedDate, or the display name when no
// normalized date is known. Values that do not parse keep their raw string as
// the label and sort before every parsed date. Ties keep store order.
func Timeline(entities []model.Entity) []model.TimelineEntry {
	type keyed struct {
		entry  model.TimelineEntry
		at     time.Time
		parsed bool
	}

	var items []keyed
	for _, e := range entities {
		if e.Category != model.CategoryDate {
			continue
		}
		raw := e.NormalizedDate
		if raw == "" {
			raw = e.Name
		}
		at, ok := parseDate(raw)

		entry := model.TimelineEntry{
			Entity:      e.Clone(),
			DisplayDate: raw,
			Parsed:      ok,
		}
		if ok {
			entry.Time = at.Format(time.RFC3339)
		}
		items = append(items, keyed{entry: entry, at: at, parsed: ok})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].parsed != items[j].parsed {
			return !items[i].parsed
		}
		return items[i].at.Before(items[j].at)
	})

	out := make([]model.TimelineEntry, len(items))
	for i, it := range items {
		it.entry.Ref = fmt.Sprintf("REF-%d", i+1)
		out[i] = it.entry
	}
	return out
}

func parseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// dateparse panics on a few pathological inputs.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
