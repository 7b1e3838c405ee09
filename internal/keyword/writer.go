package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/google/uuid"

	"hullfit/internal/mesh"
	"hullfit/internal/morph"
)

// Provenance identifies one hullfit run in the header comments of a
// written deck. Callers construct it explicitly so output is testable.
type Provenance struct {
	Tool      string
	Version   string
	RunID     string
	Timestamp time.Time
}

// NewProvenance returns a Provenance for the current run with a fresh
// run id and the current UTC time.
func NewProvenance(tool, version string) Provenance {
	return Provenance{
		Tool:      tool,
		Version:   version,
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}
}

// Boundary is the boundary-condition block written after a morph run:
// one record per resolved node, carrying its original coordinates, tied
// to an external load curve.
type Boundary struct {
	ID      int
	CurveID int
	Records []morph.BoundaryRecord
}

var headerTmpl = template.Must(template.New("header").Parse(
	`$ {{.Tool}} {{.Version}}
$ run {{.RunID}}
$ written {{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}
`))

// WriteFile writes a deck to the given path. A nil boundary writes the
// deck without a boundary block (association-only runs).
func WriteFile(path string, d *Deck, prov Provenance, boundary *Boundary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create deck %s: %w", path, err)
	}

	if err := Write(f, d, prov, boundary); err != nil {
		f.Close()
		return fmt.Errorf("failed to write deck %s: %w", path, err)
	}

	return f.Close()
}

// Write writes a deck: provenance header, nodes, shells, beams, every
// preserved block in file order, the optional boundary block, *END.
// Entities are written in ascending id order.
func Write(w io.Writer, d *Deck, prov Provenance, boundary *Boundary) error {
	bw := bufio.NewWriter(w)

	if err := headerTmpl.Execute(bw, prov); err != nil {
		return fmt.Errorf("failed to render header: %w", err)
	}

	fmt.Fprintln(bw, "*KEYWORD")

	writeNodes(bw, d.Model)
	writeShells(bw, d.Model)
	writeBeams(bw, d.Model)

	for _, b := range d.Extra {
		fmt.Fprintln(bw, b.Keyword)
		for _, line := range b.Lines {
			fmt.Fprintln(bw, line)
		}
	}

	if boundary != nil {
		writeBoundary(bw, boundary)
	}

	fmt.Fprintln(bw, "*END")

	return bw.Flush()
}

func writeNodes(w *bufio.Writer, m *mesh.Model) {
	if m.NumNodes() == 0 {
		return
	}

	fmt.Fprintln(w, "*NODE")
	for _, n := range m.Nodes() {
		fmt.Fprintf(w, "%8d %15.8g %15.8g %15.8g\n", n.ID, n.Pos.X, n.Pos.Y, n.Pos.Z)
	}
}

func writeShells(w *bufio.Writer, m *mesh.Model) {
	if m.NumShells() == 0 {
		return
	}

	fmt.Fprintln(w, "*ELEMENT_SHELL")
	for _, s := range m.Shells() {
		// Quads and tris write four slots; higher-order shells write
		// all eight.
		slots := 4
		for i := 4; i < mesh.MaxShellNodes; i++ {
			if s.Slots[i] != 0 {
				slots = mesh.MaxShellNodes
				break
			}
		}

		fmt.Fprintf(w, "%8d %7d", s.ID, s.Part)
		for i := 0; i < slots; i++ {
			fmt.Fprintf(w, " %7d", s.Slots[i])
		}
		fmt.Fprintln(w)
	}
}

func writeBeams(w *bufio.Writer, m *mesh.Model) {
	if m.NumBeams() == 0 {
		return
	}

	fmt.Fprintln(w, "*ELEMENT_BEAM")
	for _, b := range m.Beams() {
		fmt.Fprintf(w, "%8d %7d %7d %7d", b.ID, b.Part, b.N1, b.N2)
		if b.N3 != 0 {
			fmt.Fprintf(w, " %7d", b.N3)
		}
		fmt.Fprintln(w)
	}
}

func writeBoundary(w *bufio.Writer, b *Boundary) {
	fmt.Fprintln(w, "*BOUNDARY_RETRACT_GEOMETRY")
	fmt.Fprintf(w, "%8d %7d\n", b.ID, b.CurveID)

	for _, rec := range b.Records {
		fmt.Fprintf(w, "%8d %15.8g %15.8g %15.8g\n", rec.NodeID, rec.X, rec.Y, rec.Z)
	}
}
