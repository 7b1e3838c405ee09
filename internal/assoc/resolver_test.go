package assoc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hullfit/internal/diagnostic"
	"hullfit/internal/geom"
	"hullfit/internal/mesh"
)

// addQuad inserts a unit quad in the xy plane at the given z, wound
// counter-clockwise so its normal points along +z.
func addQuad(t *testing.T, m *mesh.Model, shellID int, nodeBase int, z float64) {
	t.Helper()

	pts := []geom.Vec{
		{X: 0, Y: 0, Z: z},
		{X: 1, Y: 0, Z: z},
		{X: 1, Y: 1, Z: z},
		{X: 0, Y: 1, Z: z},
	}

	var slots [8]int
	for i, p := range pts {
		require.NoError(t, m.AddNode(mesh.Node{ID: nodeBase + i, Pos: p}))
		slots[i] = nodeBase + i
	}

	require.NoError(t, m.AddShell(mesh.Shell{ID: shellID, Part: 1, Slots: slots}))
}

// addBeam inserts a beam between two fresh nodes at the given positions.
func addBeam(t *testing.T, m *mesh.Model, beamID, nodeBase int, p1, p2 geom.Vec) {
	t.Helper()

	require.NoError(t, m.AddNode(mesh.Node{ID: nodeBase, Pos: p1}))
	require.NoError(t, m.AddNode(mesh.Node{ID: nodeBase + 1, Pos: p2}))
	require.NoError(t, m.AddBeam(mesh.Beam{ID: beamID, Part: 2, N1: nodeBase, N2: nodeBase + 1}))
}

func TestResolveFindsBeamAboveElement(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: 1}, geom.Vec{X: 1, Y: 0.5, Z: 1})

	r := NewResolver(m, DefaultConfig())

	s, _ := m.Shell(10)
	beamID, ok, err := r.Resolve(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, beamID)
}

func TestResolveWidensConeToSmallestEligibleAngle(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)

	// Beam 30 sits on the normal axis at distance 2. Beam 31 is a
	// degenerate (zero length) beam at distance 1 but 50 degrees off
	// axis. The nearer beam must not win before the cone reaches it.
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: 2}, geom.Vec{X: 1, Y: 0.5, Z: 2})

	off := geom.Vec{
		X: 0.5 + math.Sin(50*math.Pi/180),
		Y: 0.5,
		Z: math.Cos(50 * math.Pi / 180),
	}
	addBeam(t, m, 31, 103, off, off)

	s, _ := m.Shell(10)

	narrow := NewResolver(m, Config{StartAngleDeg: 10, StepAngleDeg: 10})
	beamID, ok, err := narrow.Resolve(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, beamID,
		"at 10 degrees only the on-axis beam is eligible, despite being farther")

	wide := NewResolver(m, Config{StartAngleDeg: 60, StepAngleDeg: 10})
	beamID, ok, err = wide.Resolve(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 31, beamID,
		"once both beams are inside the cone the nearer one wins")
}

func TestResolveTieKeepsLowestBeamID(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)

	p1 := geom.Vec{X: 0, Y: 0.5, Z: 1}
	p2 := geom.Vec{X: 1, Y: 0.5, Z: 1}
	addBeam(t, m, 31, 101, p1, p2)
	addBeam(t, m, 30, 103, p1, p2)

	r := NewResolver(m, DefaultConfig())

	s, _ := m.Shell(10)
	beamID, ok, err := r.Resolve(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, beamID, "exact ties go to the first beam in ascending id order")
}

func TestResolveFailsWhenAllBeamsBehindNormal(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)

	// The only beam is directly behind the normal: the offset points
	// at exactly 180 degrees, which no cone below 180 admits.
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: -1}, geom.Vec{X: 1, Y: 0.5, Z: -1})

	r := NewResolver(m, Config{StartAngleDeg: 30, StepAngleDeg: 45})

	s, _ := m.Shell(10)
	_, ok, err := r.Resolve(s)
	require.NoError(t, err)
	assert.False(t, ok, "the cone search must fail rather than scan past 180 degrees")
}

func TestResolveFlipNegatesNormal(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: -1}, geom.Vec{X: 1, Y: 0.5, Z: -1})

	cfg := DefaultConfig()
	cfg.Flip = true

	r := NewResolver(m, cfg)

	s, _ := m.Shell(10)
	beamID, ok, err := r.Resolve(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, beamID)
}

func TestResolveErrorsOnShellWithoutNodes(t *testing.T) {
	m := mesh.NewModel()
	require.NoError(t, m.AddShell(mesh.Shell{ID: 10}))
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: 1}, geom.Vec{X: 1, Y: 0.5, Z: 1})

	r := NewResolver(m, DefaultConfig())

	s, _ := m.Shell(10)
	_, _, err := r.Resolve(s)
	require.Error(t, err, "a shell with no defined nodes must error, not fault")
	assert.Contains(t, err.Error(), "shell 10")
}

func TestResolveAllIsDeterministic(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)
	addQuad(t, m, 11, 5, 0.1)
	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: 1}, geom.Vec{X: 1, Y: 0.5, Z: 1})
	addBeam(t, m, 31, 103, geom.Vec{X: 0, Y: 0.5, Z: 2}, geom.Vec{X: 1, Y: 0.5, Z: 2})

	r := NewResolver(m, DefaultConfig())

	first := NewTable()
	var diags1 diagnostic.Diagnostics
	require.NoError(t, r.ResolveAll(first, &diags1))

	second := NewTable()
	var diags2 diagnostic.Diagnostics
	require.NoError(t, r.ResolveAll(second, &diags2))

	assert.Equal(t, ExportSet(first), ExportSet(second),
		"independent runs over the same input must agree exactly")
}

func TestResolveAllSkipsSeededAndReportsUnresolved(t *testing.T) {
	m := mesh.NewModel()
	addQuad(t, m, 10, 1, 0)

	// This quad faces away from the beam and stays unresolved.
	addQuad(t, m, 11, 5, 0)
	s11, _ := m.Shell(11)
	s11.Slots = [8]int{8, 7, 6, 5} // reverse winding: normal points -z

	addBeam(t, m, 30, 101, geom.Vec{X: 0, Y: 0.5, Z: 1}, geom.Vec{X: 1, Y: 0.5, Z: 1})
	addBeam(t, m, 31, 103, geom.Vec{X: 0, Y: 0.5, Z: 3}, geom.Vec{X: 1, Y: 0.5, Z: 3})

	table := NewTable()
	table.Assign(10, 31) // pre-seeded entries are never recomputed

	r := NewResolver(m, DefaultConfig())

	var diags diagnostic.Diagnostics
	require.NoError(t, r.ResolveAll(table, &diags))

	beamID, ok := table.BeamFor(10)
	require.True(t, ok)
	assert.Equal(t, 31, beamID, "seeded assignment must survive even when the search would disagree")

	assert.False(t, table.Has(11))
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "unresolved_element", diags.Warnings[0].Code)
	assert.Equal(t, 11, diags.Warnings[0].ID)
}
