package mesh

import "hullfit/internal/geom"

// MaxShellNodes is the number of node slots a shell element carries.
const MaxShellNodes = 8

// Node is a mesh vertex. Coordinates are mutated in place by the morph
// phase; nodes are never deleted.
type Node struct {
	ID  int
	Pos geom.Vec
}

// Shell is one deformable surface element. Slots holds up to eight node
// ids in element order; a zero slot is unset. Tris and quads use the
// first three or four slots.
type Shell struct {
	ID    int
	Part  int
	Slots [MaxShellNodes]int
}

// NodeIDs returns the defined node ids in slot order.
func (s *Shell) NodeIDs() []int {
	ids := make([]int, 0, MaxShellNodes)
	for _, id := range s.Slots {
		if id != 0 {
			ids = append(ids, id)
		}
	}

	return ids
}

// Uses returns true if any defined slot references the given node id.
func (s *Shell) Uses(nodeID int) bool {
	for _, id := range s.Slots {
		if id != 0 && id == nodeID {
			return true
		}
	}

	return false
}

// Rewire replaces every slot referencing oldID with newID and returns
// the number of slots changed.
func (s *Shell) Rewire(oldID, newID int) int {
	changed := 0
	for i, id := range s.Slots {
		if id == oldID && id != 0 {
			s.Slots[i] = newID
			changed++
		}
	}

	return changed
}

// Beam is one segment of the target skeleton. Beams are read-only
// throughout the pipeline. N3 is an optional orientation node carried
// through from the input deck but never interpreted.
type Beam struct {
	ID     int
	Part   int
	N1, N2 int
	N3     int
}
