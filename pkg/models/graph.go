package models

// Edge connects the output of one node to the next node of the chain.
type Edge struct {
	ID     string `json:"id"     validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// EdgeID derives the edge id from the ordered (source, target) pair.
func EdgeID(source, target string) string {
	return source + "-" + target
}

// Graph is the unit of persistence: every node and edge of the workflow.
type Graph struct {
	Nodes []Node `json:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" validate:"dive"`
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}

	out.Edges = append(out.Edges, g.Edges...)

	return out
}
