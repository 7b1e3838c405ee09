package assoc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"hullfit/internal/diagnostic"
	"hullfit/internal/geom"
	"hullfit/internal/mesh"
)

// maxConeDeg is the exclusive upper bound of the cone half-angle.
// Reaching it without an eligible beam is a definitive failure; there
// is no final unbounded scan.
const maxConeDeg = 180.0

// Config holds the cone-search parameters.
type Config struct {
	// Flip negates the element normal before searching.
	Flip bool
	// StartAngleDeg is the initial cone half-angle, in (0, 180).
	StartAngleDeg float64
	// StepAngleDeg is the widening increment per failed scan, > 0.
	StepAngleDeg float64
}

// DefaultConfig returns the default cone-search configuration.
func DefaultConfig() Config {
	return Config{
		Flip:          false,
		StartAngleDeg: 15,
		StepAngleDeg:  15,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.StartAngleDeg <= 0 || c.StartAngleDeg >= maxConeDeg {
		return fmt.Errorf("start angle %g out of range (0, 180)", c.StartAngleDeg)
	}

	if c.StepAngleDeg <= 0 {
		return fmt.Errorf("step angle %g must be positive", c.StepAngleDeg)
	}

	return nil
}

// Resolver performs the nearest-beam-in-a-growing-cone search.
type Resolver struct {
	model *mesh.Model
	cfg   Config
}

// NewResolver creates a resolver over the given model.
func NewResolver(model *mesh.Model, cfg Config) *Resolver {
	return &Resolver{model: model, cfg: cfg}
}

// ResolveAll resolves every shell not already present in the table, in
// ascending shell id order. Shells the cone search cannot place stay
// out of the table and are reported as warnings; they degrade coverage
// but never abort the run.
func (r *Resolver) ResolveAll(table *Table, diags *diagnostic.Diagnostics) error {
	for _, s := range r.model.Shells() {
		if table.Has(s.ID) {
			continue
		}

		beamID, ok, err := r.Resolve(s)
		if err != nil {
			return err
		}

		if !ok {
			diags.AddWarning("unresolved_element",
				fmt.Sprintf("no beam inside the search cone up to %g deg", maxConeDeg),
				"shell", s.ID)

			continue
		}

		table.Assign(s.ID, beamID)
	}

	return nil
}

// Resolve computes the closest beam for one shell inside a widening
// search cone. The boolean is false when the cone reaches 180 degrees
// without any eligible beam. An error means malformed topology and is
// only possible on an unvalidated model.
func (r *Resolver) Resolve(s *mesh.Shell) (int, bool, error) {
	pts, err := r.model.ShellPoints(s)
	if err != nil {
		return 0, false, err
	}

	if len(pts) == 0 {
		return 0, false, fmt.Errorf("shell %d has no defined nodes", s.ID)
	}

	x := geom.Centroid(pts)

	dirvec := geom.PolygonNormal(pts)
	if r.cfg.Flip {
		dirvec = r3.Scale(-1, dirvec)
	}

	beams := r.model.Beams()

	for cone := r.cfg.StartAngleDeg; cone < maxConeDeg; cone += r.cfg.StepAngleDeg {
		bestID := 0
		bestDist := math.Inf(1)

		for _, b := range beams {
			p1, p2, err := r.model.BeamEnds(b)
			if err != nil {
				return 0, false, err
			}

			pg := geom.ClosestOnSegment(x, p1, p2)
			dir := r3.Sub(pg, x)
			d := r3.Norm(dir)

			if geom.AngleDeg(dir, dirvec) > cone {
				continue
			}

			// First-seen wins on exact distance ties; beams iterate
			// in ascending id order.
			if d < bestDist {
				bestID = b.ID
				bestDist = d
			}
		}

		if bestID != 0 {
			return bestID, true, nil
		}
	}

	return 0, false, nil
}
