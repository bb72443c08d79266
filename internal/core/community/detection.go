package community

import (
	"github.com/agenthands/casefile/internal/core/model"
)

// Detector groups board nodes into clusters. Each cluster lists node ids;
// singletons are not reported.
type Detector interface {
	Detect(nodes []model.GraphNode, links []model.GraphLink) ([][]string, error)
}

// ComponentDetector reports connected components.
type ComponentDetector struct{}

func NewComponentDetector() *ComponentDetector {
	return &ComponentDetector{}
}

func (d *ComponentDetector) Detect(nodes []model.GraphNode, links []model.GraphLink) ([][]string, error) {
	adj := adjacency(nodes, links)

	visited := make(map[string]bool)
	var communities [][]string

	for _, n := range nodes {
		if visited[n.ID] {
			continue
		}
		var component []string
		d.dfs(n.ID, adj, visited, &component)
		if len(component) >= 2 {
			communities = append(communities, component)
		}
	}

	return communities, nil
}

func (d *ComponentDetector) dfs(u string, adj map[string]map[string]int, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range sortedKeys(adj[u]) {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// Annotate returns a copy of board whose nodes carry a 1-based community
// number. Nodes outside every cluster keep 0. Numbers follow the order in
// which clusters first appear in board.Nodes.
func Annotate(d Detector, board model.Board) (model.Board, error) {
	communities, err := d.Detect(board.Nodes, board.Links)
	if err != nil {
		return board, err
	}

	member := make(map[string]int)
	for i, c := range communities {
		for _, id := range c {
			member[id] = i
		}
	}

	number := make(map[int]int)
	out := model.Board{
		Nodes: make([]model.GraphNode, len(board.Nodes)),
		Links: board.Links,
	}
	for i, n := range board.Nodes {
		if c, ok := member[n.ID]; ok {
			if _, seen := number[c]; !seen {
				number[c] = len(number) + 1
			}
			n.Community = number[c]
		}
		out.Nodes[i] = n
	}
	return out, nil
}

func adjacency(nodes []model.GraphNode, links []model.GraphLink) map[string]map[string]int {
	adj := make(map[string]map[string]int, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = make(map[string]int)
	}
	for _, l := range links {
		if _, ok := adj[l.Source]; !ok {
			continue
		}
		if _, ok := adj[l.Target]; !ok {
			continue
		}
		w := l.Value
		if w <= 0 {
			w = 1
		}
		adj[l.Source][l.Target] += w
		adj[l.Target][l.Source] += w
	}
	return adj
}
