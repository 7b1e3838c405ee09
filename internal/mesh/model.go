package mesh

import (
	"fmt"
	"sort"
	"strings"

	"hullfit/internal/common"
	"hullfit/internal/geom"
)

// Model is the single-owner entity store for one run. It is not safe
// for concurrent mutation; the pipeline is fully sequential.
type Model struct {
	nodes  map[int]*Node
	shells map[int]*Shell
	beams  map[int]*Beam
	curves map[int]struct{}

	maxNodeID int
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		nodes:  make(map[int]*Node),
		shells: make(map[int]*Shell),
		beams:  make(map[int]*Beam),
		curves: make(map[int]struct{}),
	}
}

// AddNode inserts a node. Ids must be positive and unique.
func (m *Model) AddNode(n Node) error {
	if n.ID <= 0 {
		return fmt.Errorf("node id %d is not positive", n.ID)
	}

	if _, exists := m.nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %d", n.ID)
	}

	m.nodes[n.ID] = &n
	if n.ID > m.maxNodeID {
		m.maxNodeID = n.ID
	}

	return nil
}

// AddShell inserts a shell element.
func (m *Model) AddShell(s Shell) error {
	if s.ID <= 0 {
		return fmt.Errorf("shell id %d is not positive", s.ID)
	}

	if _, exists := m.shells[s.ID]; exists {
		return fmt.Errorf("duplicate shell id %d", s.ID)
	}

	m.shells[s.ID] = &s

	return nil
}

// AddBeam inserts a beam element.
func (m *Model) AddBeam(b Beam) error {
	if b.ID <= 0 {
		return fmt.Errorf("beam id %d is not positive", b.ID)
	}

	if _, exists := m.beams[b.ID]; exists {
		return fmt.Errorf("duplicate beam id %d", b.ID)
	}

	m.beams[b.ID] = &b

	return nil
}

// AddCurve records a load-curve id seen in the input deck. The curve
// data itself is preserved verbatim by the deck layer; the model only
// answers existence queries.
func (m *Model) AddCurve(id int) {
	m.curves[id] = struct{}{}
}

// HasCurve returns true if the given load-curve id exists in the deck.
func (m *Model) HasCurve(id int) bool {
	_, ok := m.curves[id]
	return ok
}

// Node returns the node with the given id.
func (m *Model) Node(id int) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Shell returns the shell with the given id.
func (m *Model) Shell(id int) (*Shell, bool) {
	s, ok := m.shells[id]
	return s, ok
}

// Beam returns the beam with the given id.
func (m *Model) Beam(id int) (*Beam, bool) {
	b, ok := m.beams[id]
	return b, ok
}

// Nodes returns all nodes in ascending id order.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, len(m.nodes))
	for _, id := range common.SortedKeys(m.nodes) {
		out = append(out, m.nodes[id])
	}

	return out
}

// Shells returns all shell elements in ascending id order.
func (m *Model) Shells() []*Shell {
	out := make([]*Shell, 0, len(m.shells))
	for _, id := range common.SortedKeys(m.shells) {
		out = append(out, m.shells[id])
	}

	return out
}

// Beams returns all beam elements in ascending id order.
func (m *Model) Beams() []*Beam {
	out := make([]*Beam, 0, len(m.beams))
	for _, id := range common.SortedKeys(m.beams) {
		out = append(out, m.beams[id])
	}

	return out
}

// NumNodes returns the node count.
func (m *Model) NumNodes() int { return len(m.nodes) }

// NumShells returns the shell element count.
func (m *Model) NumShells() int { return len(m.shells) }

// NumBeams returns the beam element count.
func (m *Model) NumBeams() int { return len(m.beams) }

// MaxNodeID returns the largest node id currently in the model.
func (m *Model) MaxNodeID() int { return m.maxNodeID }

// CloneNode copies the node with the given id under a fresh id strictly
// greater than the current maximum. The clone starts at the source's
// coordinates and is independent afterwards.
func (m *Model) CloneNode(id int) (*Node, error) {
	src, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("clone of unknown node %d", id)
	}

	clone := Node{ID: m.maxNodeID + 1, Pos: src.Pos}
	if err := m.AddNode(clone); err != nil {
		return nil, err
	}

	return m.nodes[clone.ID], nil
}

// ShellPoints returns the positions of a shell's defined nodes in slot
// order. It fails if a slot references a node missing from the model.
func (m *Model) ShellPoints(s *Shell) ([]geom.Vec, error) {
	ids := s.NodeIDs()

	pts := make([]geom.Vec, 0, len(ids))
	for _, id := range ids {
		n, ok := m.nodes[id]
		if !ok {
			return nil, fmt.Errorf("shell %d references unknown node %d", s.ID, id)
		}

		pts = append(pts, n.Pos)
	}

	return pts, nil
}

// BeamEnds returns the positions of a beam's two end nodes.
func (m *Model) BeamEnds(b *Beam) (geom.Vec, geom.Vec, error) {
	n1, ok := m.nodes[b.N1]
	if !ok {
		return geom.Vec{}, geom.Vec{}, fmt.Errorf("beam %d references unknown node %d", b.ID, b.N1)
	}

	n2, ok := m.nodes[b.N2]
	if !ok {
		return geom.Vec{}, geom.Vec{}, fmt.Errorf("beam %d references unknown node %d", b.ID, b.N2)
	}

	return n1.Pos, n2.Pos, nil
}

// Validate checks that every shell has at least two defined nodes and
// that every element references nodes present in the model. All
// problems are reported, sorted for determinism.
func (m *Model) Validate() error {
	var bad []string

	for _, s := range m.Shells() {
		ids := s.NodeIDs()
		if len(ids) < 2 {
			bad = append(bad, fmt.Sprintf("shell %d has %d defined nodes", s.ID, len(ids)))
		}

		for _, id := range ids {
			if _, ok := m.nodes[id]; !ok {
				bad = append(bad, fmt.Sprintf("shell %d -> node %d", s.ID, id))
			}
		}
	}

	for _, b := range m.Beams() {
		for _, id := range []int{b.N1, b.N2} {
			if _, ok := m.nodes[id]; !ok {
				bad = append(bad, fmt.Sprintf("beam %d -> node %d", b.ID, id))
			}
		}
	}

	if len(bad) == 0 {
		return nil
	}

	sort.Strings(bad)

	return fmt.Errorf("mesh validation: %s", strings.Join(bad, ", "))
}
