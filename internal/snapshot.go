package internal

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// NodeSnapshot is a serializable mirror of one node, for debugging and
// introspection. It carries no live references into the graph.
type NodeSnapshot struct {
	Path       string         `json:"path"`
	Element    string         `json:"element,omitempty"`
	Terminal   string         `json:"terminal,omitempty"`
	NeedsSetup bool           `json:"needs_setup,omitempty"`
	StateCells int            `json:"state_cells,omitempty"`
	Cycle      uint64         `json:"cycle,omitempty"`
	Children   []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot mirrors the persisted tree from the root. Reports false before
// the first successful Update.
func (s *System) Snapshot() (NodeSnapshot, bool) {
	root, ok := s.Root()
	if !ok {
		return NodeSnapshot{}, false
	}
	return s.snapshotNode(root), true
}

func (s *System) snapshotNode(n *Node) NodeSnapshot {
	snap := NodeSnapshot{
		Path:       n.key,
		Element:    typeName(n.element),
		NeedsSetup: n.needsSetup,
		StateCells: len(n.states),
		Cycle:      n.cycle,
	}
	if terminal := typeName(n.terminal); terminal != snap.Element {
		snap.Terminal = terminal
	}
	for _, child := range n.Children() {
		snap.Children = append(snap.Children, s.snapshotNode(child))
	}
	return snap
}

// DumpJSON renders the snapshot tree as indented JSON.
func (s *System) DumpJSON() ([]byte, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return nil, MissingContextError("", "node tree (no update has run)")
	}
	return json.MarshalIndent(snap, "", "  ")
}

func typeName(e Element) string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%T", e)
}
