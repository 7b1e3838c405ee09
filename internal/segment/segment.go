// Package segment splits nodes shared by shells that are fitted to
// different beams, cloning nodes until every node belongs to shells of
// exactly one beam. Without the split such a node could not be
// projected unambiguously.
package segment

import (
	"errors"
	"fmt"
	"sort"

	"hullfit/internal/assoc"
	"hullfit/internal/common"
	"hullfit/internal/diagnostic"
	"hullfit/internal/mesh"
)

// MaxPasses bounds the fixed point. One pass fully rewires every
// conflicting node, so hitting the cap means a logic defect rather
// than a slow input.
const MaxPasses = 64

// ErrUnstable reports a fixed point that failed to stabilize within
// MaxPasses passes.
var ErrUnstable = errors.New("segmentation did not stabilize")

// Run splits shared nodes until each maps to a single beam and returns
// the number of nodes cloned. Only shells present in the table take
// part; unresolved shells contribute no conflicts. The model and table
// are mutated in place.
func Run(m *mesh.Model, table *assoc.Table, diags *diagnostic.Diagnostics) (int, error) {
	clones := 0

	for pass := 0; pass < MaxPasses; pass++ {
		index := elementsOfNode(m, table)

		conflicts := conflictingNodes(index, table)
		if len(conflicts) == 0 {
			return clones, nil
		}

		// Splitting one node never changes which shells reference
		// another, so the index stays valid for the whole pass.
		for _, nodeID := range conflicts {
			n, err := splitNode(m, table, nodeID, index[nodeID], diags)
			if err != nil {
				return clones, err
			}

			clones += n
		}
	}

	return clones, fmt.Errorf("%w after %d passes", ErrUnstable, MaxPasses)
}

// NodeTargets returns the beam each node must be projected onto,
// considering only nodes referenced by resolved shells. After Run the
// per-node beam set has size one; a larger set here means the fixed
// point is broken and is returned as an error.
func NodeTargets(m *mesh.Model, table *assoc.Table) (map[int]int, error) {
	targets := make(map[int]int)

	for _, s := range m.Shells() {
		beamID, ok := table.BeamFor(s.ID)
		if !ok {
			continue
		}

		for _, nodeID := range s.NodeIDs() {
			if prev, seen := targets[nodeID]; seen && prev != beamID {
				return nil, fmt.Errorf("node %d still maps to beam %d and beam %d", nodeID, prev, beamID)
			}

			targets[nodeID] = beamID
		}
	}

	return targets, nil
}

// elementsOfNode indexes resolved shells by the nodes they reference.
// Shell ids within each entry are ascending because Shells() iterates
// in ascending id order.
func elementsOfNode(m *mesh.Model, table *assoc.Table) map[int][]int {
	index := make(map[int][]int)

	for _, s := range m.Shells() {
		if !table.Has(s.ID) {
			continue
		}

		for _, nodeID := range s.NodeIDs() {
			index[nodeID] = append(index[nodeID], s.ID)
		}
	}

	return index
}

// conflictingNodes returns, in ascending order, every node whose shells
// disagree on the target beam.
func conflictingNodes(index map[int][]int, table *assoc.Table) []int {
	var out []int

	for nodeID, shellIDs := range index {
		if len(beamGroups(table, shellIDs)) > 1 {
			out = append(out, nodeID)
		}
	}

	sort.Ints(out)

	return out
}

// beamGroups partitions shell ids by their assigned beam.
func beamGroups(table *assoc.Table, shellIDs []int) map[int][]int {
	groups := make(map[int][]int)

	for _, shellID := range shellIDs {
		beamID, ok := table.BeamFor(shellID)
		if !ok {
			continue
		}

		groups[beamID] = append(groups[beamID], shellID)
	}

	return groups
}

// splitNode resolves one conflicting node. The group with the most
// shells keeps the original node (ties go to the smallest beam id);
// every other group is rewired onto a fresh clone. Returns the number
// of clones made.
func splitNode(m *mesh.Model, table *assoc.Table, nodeID int, shellIDs []int, diags *diagnostic.Diagnostics) (int, error) {
	groups := beamGroups(table, shellIDs)
	if len(groups) < 2 {
		return 0, nil
	}

	beamIDs := common.SortedKeys(groups)
	sort.SliceStable(beamIDs, func(i, j int) bool {
		return len(groups[beamIDs[i]]) > len(groups[beamIDs[j]])
	})

	clones := 0

	// beamIDs[0] keeps the original node.
	for _, beamID := range beamIDs[1:] {
		clone, err := m.CloneNode(nodeID)
		if err != nil {
			return clones, err
		}

		clones++

		for _, shellID := range groups[beamID] {
			s, ok := m.Shell(shellID)
			if !ok {
				return clones, fmt.Errorf("rewire of unknown shell %d", shellID)
			}

			s.Rewire(nodeID, clone.ID)
		}

		diags.AddInfo("node_split",
			fmt.Sprintf("split for beam %d as node %d", beamID, clone.ID),
			"node", nodeID)
	}

	return clones, nil
}
