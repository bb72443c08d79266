package model

// DocumentNodeType marks board nodes that stand for analyzed documents.
const DocumentNodeType = "DOCUMENT"

const (
	DocumentGroup  = 1
	EntityGroup    = 2
	DocumentWeight = 20
	EntityWeight   = 10
)

type GraphNode struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Group        int      `json:"group"`
	Val          int      `json:"val"`
	Context      string   `json:"context,omitempty"`
	SourceDocIDs []string `json:"sourceDocIds,omitempty"`
	Community    int      `json:"community,omitempty"`
}

// GraphLink connects a document (source) to an entity it mentions (target).
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type Board struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// TimelineEntry is a DATE entity placed on the chronological view.
type TimelineEntry struct {
	Entity
	Time        string `json:"time,omitempty"`
	DisplayDate string `json:"displayDate"`
	Parsed      bool   `json:"parsed"`
	Ref         string `json:"ref"`
}
