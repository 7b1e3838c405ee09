// Package morph displaces every resolved node toward its assigned beam
// and captures the pre-displacement coordinates as boundary records.
package morph

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"hullfit/internal/common"
	"hullfit/internal/diagnostic"
	"hullfit/internal/geom"
	"hullfit/internal/mesh"
)

// Mode selects how resolved nodes are displaced toward their beam.
type Mode int

const (
	// ModeNone performs no displacement; the run stops after
	// association and segmentation.
	ModeNone Mode = iota
	// ModeScale contracts each node's offset from the beam by a
	// uniform factor.
	ModeScale
	// ModeRadius places each node at a fixed distance from its
	// projection point on the beam.
	ModeRadius
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeScale:
		return "scale"
	case ModeRadius:
		return "radius"
	default:
		return common.UnknownStr
	}
}

// BoundaryRecord snapshots a node's position before displacement. The
// downstream solver uses it as the "return to origin" constraint.
type BoundaryRecord struct {
	NodeID  int
	X, Y, Z float64
}

// Apply displaces every node in nodeTargets toward its beam and returns
// the pre-displacement records in ascending node id order. In radius
// mode a node already on its beam has no displacement direction; it is
// left in place and noted, never divided by zero.
func Apply(m *mesh.Model, nodeTargets map[int]int, mode Mode, param float64, diags *diagnostic.Diagnostics) ([]BoundaryRecord, error) {
	if mode != ModeScale && mode != ModeRadius {
		return nil, fmt.Errorf("morph mode %s cannot be applied", mode)
	}

	records := make([]BoundaryRecord, 0, len(nodeTargets))

	for _, nodeID := range common.SortedKeys(nodeTargets) {
		n, ok := m.Node(nodeID)
		if !ok {
			return nil, fmt.Errorf("morph of unknown node %d", nodeID)
		}

		b, ok := m.Beam(nodeTargets[nodeID])
		if !ok {
			return nil, fmt.Errorf("node %d targets unknown beam %d", nodeID, nodeTargets[nodeID])
		}

		p1, p2, err := m.BeamEnds(b)
		if err != nil {
			return nil, err
		}

		records = append(records, BoundaryRecord{
			NodeID: n.ID,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			Z:      n.Pos.Z,
		})

		pg := geom.ClosestOnSegment(n.Pos, p1, p2)
		dir := r3.Sub(pg, n.Pos)
		d := r3.Norm(dir)

		switch mode {
		case ModeScale:
			n.Pos = r3.Add(n.Pos, r3.Scale(1-param, dir))
		case ModeRadius:
			if d == 0 {
				diags.AddInfo("degenerate_radius",
					"node lies on its beam; left in place", "node", n.ID)

				continue
			}

			n.Pos = r3.Add(n.Pos, r3.Scale(1-param/d, dir))
		}
	}

	return records, nil
}
