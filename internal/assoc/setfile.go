package assoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hullfit/internal/diagnostic"
	"hullfit/internal/mesh"
)

// SetFile is the persisted form of an association table, keyed by beam.
// It lets a run resume a previous association instead of repeating the
// cone search.
type SetFile struct {
	// Version of the set schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Targets lists the shells fitted to each beam.
	Targets []TargetSet `yaml:"targets"`
}

// TargetSet is one beam together with its associated shells.
type TargetSet struct {
	Beam   int   `yaml:"beam"`
	Shells []int `yaml:"shells,flow"`
}

// LoadSetFile loads and parses a YAML set file from the given path.
func LoadSetFile(path string) (*SetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read set file %s: %w", path, err)
	}

	return ParseSet(data)
}

// ParseSet parses YAML data into a SetFile.
func ParseSet(data []byte) (*SetFile, error) {
	var sf SetFile

	err := yaml.Unmarshal(data, &sf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse set YAML: %w", err)
	}

	if sf.Version == "" {
		sf.Version = "1"
	}

	return &sf, nil
}

// MarshalSet serializes a SetFile to YAML.
func MarshalSet(sf *SetFile) ([]byte, error) {
	return yaml.Marshal(sf)
}

// WriteSetFile writes a SetFile to the given path.
func WriteSetFile(sf *SetFile, path string) error {
	data, err := MarshalSet(sf)
	if err != nil {
		return fmt.Errorf("failed to marshal set: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write set file %s: %w", path, err)
	}

	return nil
}

// Apply seeds the table with the entries of the set file, in file
// order. Entries naming unknown shells or beams are skipped with a
// warning. A shell listed under two beams keeps the later entry and
// reports a conflict; applied entries are treated as already resolved
// and skipped by the cone search.
func (sf *SetFile) Apply(table *Table, model *mesh.Model, diags *diagnostic.Diagnostics) {
	for _, ts := range sf.Targets {
		if _, ok := model.Beam(ts.Beam); !ok {
			diags.AddWarning("seed_unknown_beam",
				"set file names a beam not present in the deck", "beam", ts.Beam)

			continue
		}

		for _, shellID := range ts.Shells {
			if _, ok := model.Shell(shellID); !ok {
				diags.AddWarning("seed_unknown_shell",
					"set file names a shell not present in the deck", "shell", shellID)

				continue
			}

			if prev, ok := table.BeamFor(shellID); ok && prev != ts.Beam {
				diags.AddWarning("seed_conflict",
					fmt.Sprintf("shell listed under beam %d and beam %d; keeping beam %d",
						prev, ts.Beam, ts.Beam),
					"shell", shellID)
			}

			table.Assign(shellID, ts.Beam)
		}
	}
}

// ExportSet regenerates a set file from a resolved table, beams and
// shells both in ascending id order so output is reproducible.
func ExportSet(table *Table) *SetFile {
	sf := &SetFile{Version: "1"}

	for _, beamID := range table.Beams() {
		sf.Targets = append(sf.Targets, TargetSet{
			Beam:   beamID,
			Shells: table.Shells(beamID),
		})
	}

	return sf
}
