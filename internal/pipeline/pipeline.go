package pipeline

import (
	"errors"
	"fmt"

	"hullfit/internal/assoc"
	"hullfit/internal/common"
	"hullfit/internal/diagnostic"
	"hullfit/internal/mesh"
	"hullfit/internal/morph"
	"hullfit/internal/segment"
)

// Fatal input validation errors. These abort before any mutation.
var (
	ErrNoShells = errors.New("deck has no shell elements")
	ErrNoBeams  = errors.New("deck has no beam elements")
)

// Config holds one run's configuration.
type Config struct {
	// Cone configures the association search.
	Cone assoc.Config
	// Mode selects the morph phase. ModeNone runs association and
	// segmentation only, a valid no-op outcome usable with set export.
	Mode morph.Mode
	// Param is the scale factor or the target radius, depending on Mode.
	Param float64
	// Reassociate ignores any supplied seed and searches from scratch.
	Reassociate bool
	// CurveID is the external load-curve id referenced by the output
	// boundary block; 0 skips validation.
	CurveID int
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() Config {
	return Config{
		Cone: assoc.DefaultConfig(),
		Mode: morph.ModeNone,
	}
}

// Validate checks the configuration before the run mutates anything.
func (c Config) Validate() error {
	if err := c.Cone.Validate(); err != nil {
		return err
	}

	switch c.Mode {
	case morph.ModeNone:
	case morph.ModeScale:
	case morph.ModeRadius:
		if c.Param <= 0 {
			return fmt.Errorf("radius %g must be positive", c.Param)
		}
	default:
		return fmt.Errorf("unknown morph mode %d", c.Mode)
	}

	return nil
}

// Outcome reports how far a run went.
type Outcome int

const (
	// OutcomeAssociationOnly means no morph mode was configured; the
	// coordinates are untouched.
	OutcomeAssociationOnly Outcome = iota
	// OutcomeMorphed means node coordinates were displaced and
	// boundary records emitted.
	OutcomeMorphed
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAssociationOnly:
		return "association-only"
	case OutcomeMorphed:
		return "morphed"
	default:
		return common.UnknownStr
	}
}

// Result is everything a run produces besides the mutated model.
type Result struct {
	// Table is the final shell-to-beam association.
	Table *assoc.Table
	// NodeTargets maps each resolved node to the beam it was
	// projected onto.
	NodeTargets map[int]int
	// Records are the boundary records in ascending node id order;
	// empty for association-only runs.
	Records []morph.BoundaryRecord
	// Clones is the number of nodes split by segmentation.
	Clones int

	Outcome     Outcome
	Diagnostics diagnostic.Diagnostics
}

// Run executes the pipeline over the given model. The seed may be nil.
// The model is mutated in place: segmentation adds cloned nodes and
// rewires shells, and a morph run overwrites node coordinates.
func Run(m *mesh.Model, seed *assoc.SetFile, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if m.NumShells() == 0 {
		return nil, ErrNoShells
	}

	if m.NumBeams() == 0 {
		return nil, ErrNoBeams
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Table: assoc.NewTable()}

	if seed != nil && !cfg.Reassociate {
		seed.Apply(res.Table, m, &res.Diagnostics)
	}

	resolver := assoc.NewResolver(m, cfg.Cone)
	if err := resolver.ResolveAll(res.Table, &res.Diagnostics); err != nil {
		return nil, err
	}

	clones, err := segment.Run(m, res.Table, &res.Diagnostics)
	if err != nil {
		return nil, err
	}

	res.Clones = clones

	res.NodeTargets, err = segment.NodeTargets(m, res.Table)
	if err != nil {
		// Broken fixed point; segment.Run guarantees this cannot
		// happen on its own output.
		return nil, err
	}

	if cfg.CurveID != 0 && !m.HasCurve(cfg.CurveID) {
		res.Diagnostics.AddWarning("curve_missing",
			"configured load curve is not defined in the deck", "curve", cfg.CurveID)
	}

	if cfg.Mode == morph.ModeNone {
		res.Outcome = OutcomeAssociationOnly
		return res, nil
	}

	res.Records, err = morph.Apply(m, res.NodeTargets, cfg.Mode, cfg.Param, &res.Diagnostics)
	if err != nil {
		return nil, err
	}

	res.Outcome = OutcomeMorphed

	return res, nil
}
