package community

import (
	"sort"

	"github.com/agenthands/casefile/internal/core/model"
)

// LabelPropagationDetector clusters the board with label propagation, using
// link values as weights.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []model.GraphNode, links []model.GraphLink) ([][]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	adj := adjacency(nodes, links)

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.ID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0

		for _, n := range nodes {
			neighbors := adj[n.ID]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				counts[label] += weight
				if counts[label] > maxCount {
					maxCount = counts[label]
				}
			}

			var candidates []string
			for label, count := range counts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Keep the current label on a tie, else take the largest.
			best := labels[n.ID]
			if counts[best] != maxCount {
				sort.Strings(candidates)
				best = candidates[len(candidates)-1]
			}

			if labels[n.ID] != best {
				labels[n.ID] = best
				changed++
			}
		}

		if changed == 0 {
			break
		}
	}

	var order []string
	clusters := make(map[string][]string)
	for _, n := range nodes {
		label := labels[n.ID]
		if _, ok := clusters[label]; !ok {
			order = append(order, label)
		}
		clusters[label] = append(clusters[label], n.ID)
	}

	var communities [][]string
	for _, label := range order {
		if len(clusters[label]) >= 2 {
			communities = append(communities, clusters[label])
		}
	}
	return communities, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
