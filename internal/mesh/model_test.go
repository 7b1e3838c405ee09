package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hullfit/internal/geom"
)

func buildModel(t *testing.T) *Model {
	t.Helper()

	m := NewModel()
	require.NoError(t, m.AddNode(Node{ID: 1, Pos: geom.Vec{X: 0}}))
	require.NoError(t, m.AddNode(Node{ID: 5, Pos: geom.Vec{X: 5}}))
	require.NoError(t, m.AddNode(Node{ID: 3, Pos: geom.Vec{X: 3}}))
	require.NoError(t, m.AddShell(Shell{ID: 10, Part: 1, Slots: [8]int{1, 3, 5}}))
	require.NoError(t, m.AddBeam(Beam{ID: 20, Part: 2, N1: 1, N2: 5}))

	return m
}

func TestModelLookupAndOrder(t *testing.T) {
	m := buildModel(t)

	n, ok := m.Node(3)
	require.True(t, ok)
	assert.Equal(t, geom.Vec{X: 3}, n.Pos)

	_, ok = m.Node(99)
	assert.False(t, ok)

	var ids []int
	for _, n := range m.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int{1, 3, 5}, ids, "nodes must iterate in ascending id order")

	assert.Equal(t, 5, m.MaxNodeID())
}

func TestModelRejectsDuplicates(t *testing.T) {
	m := buildModel(t)

	assert.Error(t, m.AddNode(Node{ID: 3}))
	assert.Error(t, m.AddShell(Shell{ID: 10}))
	assert.Error(t, m.AddBeam(Beam{ID: 20}))
	assert.Error(t, m.AddNode(Node{ID: 0}), "non-positive ids are rejected")
}

func TestCloneNode(t *testing.T) {
	m := buildModel(t)

	clone, err := m.CloneNode(3)
	require.NoError(t, err)

	assert.Equal(t, 6, clone.ID, "clone id is strictly above the previous maximum")
	assert.Equal(t, geom.Vec{X: 3}, clone.Pos)

	// Clones are independent of their source after creation.
	clone.Pos.X = 42
	src, _ := m.Node(3)
	assert.Equal(t, 3.0, src.Pos.X)

	second, err := m.CloneNode(3)
	require.NoError(t, err)
	assert.Equal(t, 7, second.ID, "ids are never reused within a run")

	_, err = m.CloneNode(99)
	assert.Error(t, err)
}

func TestShellNodeIDsAndRewire(t *testing.T) {
	s := Shell{ID: 1, Slots: [8]int{4, 7, 4, 9}}

	assert.Equal(t, []int{4, 7, 4, 9}, s.NodeIDs())
	assert.True(t, s.Uses(7))
	assert.False(t, s.Uses(8))

	changed := s.Rewire(4, 11)
	assert.Equal(t, 2, changed, "every slot holding the old id is rewired")
	assert.Equal(t, []int{11, 7, 11, 9}, s.NodeIDs())
}

func TestModelValidate(t *testing.T) {
	m := buildModel(t)
	require.NoError(t, m.Validate())

	require.NoError(t, m.AddShell(Shell{ID: 11, Slots: [8]int{1, 2}}))

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell 11 -> node 2")
}

func TestModelValidateRejectsShellsWithoutNodes(t *testing.T) {
	m := buildModel(t)
	require.NoError(t, m.AddShell(Shell{ID: 12}))
	require.NoError(t, m.AddShell(Shell{ID: 13, Slots: [8]int{1}}))

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell 12 has 0 defined nodes")
	assert.Contains(t, err.Error(), "shell 13 has 1 defined nodes")
}

func TestShellPoints(t *testing.T) {
	m := buildModel(t)

	s, _ := m.Shell(10)
	pts, err := m.ShellPoints(s)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{X: 0}, {X: 3}, {X: 5}}, pts)
}

func TestCurves(t *testing.T) {
	m := NewModel()

	assert.False(t, m.HasCurve(7))
	m.AddCurve(7)
	assert.True(t, m.HasCurve(7))
}
