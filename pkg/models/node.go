// Package models defines the core domain models for the workflow canvas editor.
package models

// Position is a canvas-relative coordinate. The canvas is unbounded.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p translated by -o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Node represents a placed trigger or step instance on the canvas.
type Node struct {
	ID           string            `json:"id"            validate:"required"`
	DefinitionID string            `json:"definition_id" validate:"required"`
	Position     Position          `json:"position"`
	Values       map[string]string `json:"values"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Values = CloneValues(n.Values)

	return n
}

// CloneValues copies a values mapping. A nil mapping becomes an empty one.
func CloneValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}

	return out
}
