package assoc

import (
	"hullfit/internal/common"
)

// Table records which beam each shell is fitted to. The per-beam
// inverse index is maintained on every assignment so both directions
// stay consistent.
type Table struct {
	byShell map[int]int
	byBeam  map[int]map[int]struct{}
}

// NewTable creates an empty association table.
func NewTable() *Table {
	return &Table{
		byShell: make(map[int]int),
		byBeam:  make(map[int]map[int]struct{}),
	}
}

// Assign maps a shell to a beam, replacing any previous assignment for
// the same shell.
func (t *Table) Assign(shellID, beamID int) {
	if prev, ok := t.byShell[shellID]; ok {
		delete(t.byBeam[prev], shellID)
		if len(t.byBeam[prev]) == 0 {
			delete(t.byBeam, prev)
		}
	}

	t.byShell[shellID] = beamID

	set, ok := t.byBeam[beamID]
	if !ok {
		set = make(map[int]struct{})
		t.byBeam[beamID] = set
	}

	set[shellID] = struct{}{}
}

// BeamFor returns the beam assigned to a shell.
func (t *Table) BeamFor(shellID int) (int, bool) {
	beamID, ok := t.byShell[shellID]
	return beamID, ok
}

// Has returns true if the shell already has an assignment.
func (t *Table) Has(shellID int) bool {
	_, ok := t.byShell[shellID]
	return ok
}

// Shells returns the shells assigned to a beam in ascending id order.
func (t *Table) Shells(beamID int) []int {
	ids := common.SortedKeys(t.byBeam[beamID])
	if len(ids) == 0 {
		return nil
	}

	return ids
}

// Beams returns every beam with at least one assignment, ascending.
func (t *Table) Beams() []int {
	return common.SortedKeys(t.byBeam)
}

// ShellIDs returns every assigned shell id, ascending.
func (t *Table) ShellIDs() []int {
	return common.SortedKeys(t.byShell)
}

// Len returns the number of assigned shells.
func (t *Table) Len() int {
	return len(t.byShell)
}
