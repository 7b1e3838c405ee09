package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hullfit/internal/geom"
	"hullfit/internal/mesh"
)

// Deck is one keyword file: the entity model plus every block the tool
// does not interpret, preserved in file order for round-tripping.
type Deck struct {
	Model *mesh.Model
	Extra []Block
}

// Block is one keyword block carried through verbatim.
type Block struct {
	// Keyword is the full keyword line, including the leading '*'.
	Keyword string
	// Lines are the block's data lines, unmodified.
	Lines []string
}

// ReadFile reads a keyword deck from the given path.
func ReadFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Read parses a keyword deck. '$' lines are comments, '*KEYWORD' is an
// optional header, '*END' terminates the deck. Data lines are free
// format, split on whitespace or commas.
func Read(r io.Reader) (*Deck, error) {
	d := &Deck{Model: mesh.NewModel()}

	p := &parser{scanner: bufio.NewScanner(r)}

	for {
		line, ok := p.next()
		if !ok {
			break
		}

		if !strings.HasPrefix(line, "*") {
			return nil, fmt.Errorf("line %d: data outside any keyword block: %q", p.lineNo, line)
		}

		keyword := strings.ToUpper(strings.TrimSpace(line))
		if keyword == "*KEYWORD" {
			continue
		}

		if keyword == "*END" {
			break
		}

		var err error

		switch {
		case keyword == "*NODE":
			err = p.readNodes(d.Model)
		case strings.HasPrefix(keyword, "*ELEMENT_SHELL"):
			err = p.readShells(d.Model)
		case strings.HasPrefix(keyword, "*ELEMENT_BEAM"):
			err = p.readBeams(d.Model)
		case strings.HasPrefix(keyword, "*DEFINE_CURVE"):
			err = p.readCurve(d, line)
		default:
			d.Extra = append(d.Extra, Block{Keyword: line, Lines: p.blockLines()})
		}

		if err != nil {
			return nil, err
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}

	return d, nil
}

type parser struct {
	scanner *bufio.Scanner
	lineNo  int

	// pending holds a keyword line read past the end of a data block.
	pending    string
	hasPending bool
}

// next returns the next significant line, skipping comments and blank
// lines.
func (p *parser) next() (string, bool) {
	if p.hasPending {
		p.hasPending = false
		return p.pending, true
	}

	for p.scanner.Scan() {
		p.lineNo++

		line := strings.TrimRight(p.scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "$") {
			continue
		}

		return line, true
	}

	return "", false
}

// dataLine returns the next data line of the current block, or false
// when the block ends. A keyword line is pushed back for the caller.
func (p *parser) dataLine() (string, bool) {
	line, ok := p.next()
	if !ok {
		return "", false
	}

	if strings.HasPrefix(line, "*") {
		p.pending = line
		p.hasPending = true

		return "", false
	}

	return line, true
}

// blockLines collects all data lines of an uninterpreted block.
func (p *parser) blockLines() []string {
	var lines []string

	for {
		line, ok := p.dataLine()
		if !ok {
			return lines
		}

		lines = append(lines, line)
	}
}

// fields splits a free-format data line on whitespace and commas.
func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

func (p *parser) readNodes(m *mesh.Model) error {
	for {
		line, ok := p.dataLine()
		if !ok {
			return nil
		}

		f := fields(line)
		if len(f) < 4 {
			return fmt.Errorf("line %d: node needs id and 3 coordinates, got %d fields", p.lineNo, len(f))
		}

		id, err := strconv.Atoi(f[0])
		if err != nil {
			return fmt.Errorf("line %d: invalid node id %q: %w", p.lineNo, f[0], err)
		}

		var pos [3]float64
		for i := 0; i < 3; i++ {
			pos[i], err = strconv.ParseFloat(f[i+1], 64)
			if err != nil {
				return fmt.Errorf("line %d: invalid node coordinate %q: %w", p.lineNo, f[i+1], err)
			}
		}

		err = m.AddNode(mesh.Node{ID: id, Pos: geom.Vec{X: pos[0], Y: pos[1], Z: pos[2]}})
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineNo, err)
		}
	}
}

func (p *parser) readShells(m *mesh.Model) error {
	for {
		line, ok := p.dataLine()
		if !ok {
			return nil
		}

		f := fields(line)
		if len(f) < 4 {
			return fmt.Errorf("line %d: shell needs id, part and at least 2 nodes, got %d fields", p.lineNo, len(f))
		}

		if len(f) > 2+mesh.MaxShellNodes {
			f = f[:2+mesh.MaxShellNodes]
		}

		ints, err := p.intFields(f)
		if err != nil {
			return err
		}

		s := mesh.Shell{ID: ints[0], Part: ints[1]}
		copy(s.Slots[:], ints[2:])

		// Zero slots are unset; a line like "10 1 0 0" defines nothing.
		if len(s.NodeIDs()) < 2 {
			return fmt.Errorf("line %d: shell %d has fewer than 2 defined nodes", p.lineNo, s.ID)
		}

		if err := m.AddShell(s); err != nil {
			return fmt.Errorf("line %d: %w", p.lineNo, err)
		}
	}
}

func (p *parser) readBeams(m *mesh.Model) error {
	for {
		line, ok := p.dataLine()
		if !ok {
			return nil
		}

		f := fields(line)
		if len(f) < 4 {
			return fmt.Errorf("line %d: beam needs id, part and 2 nodes, got %d fields", p.lineNo, len(f))
		}

		if len(f) > 5 {
			f = f[:5]
		}

		ints, err := p.intFields(f)
		if err != nil {
			return err
		}

		b := mesh.Beam{ID: ints[0], Part: ints[1], N1: ints[2], N2: ints[3]}
		if len(ints) > 4 {
			b.N3 = ints[4]
		}

		if err := m.AddBeam(b); err != nil {
			return fmt.Errorf("line %d: %w", p.lineNo, err)
		}
	}
}

// readCurve indexes the curve id from the first data line and preserves
// the whole block verbatim.
func (p *parser) readCurve(d *Deck, keywordLine string) error {
	first, ok := p.dataLine()
	if !ok {
		return fmt.Errorf("line %d: empty curve block", p.lineNo)
	}

	// A separator-only line survives the comment/blank filter but
	// splits into no fields.
	f := fields(first)
	if len(f) == 0 {
		return fmt.Errorf("line %d: curve needs an id on its first data line", p.lineNo)
	}

	id, err := strconv.Atoi(f[0])
	if err != nil {
		return fmt.Errorf("line %d: invalid curve id %q: %w", p.lineNo, f[0], err)
	}

	d.Model.AddCurve(id)

	lines := append([]string{first}, p.blockLines()...)
	d.Extra = append(d.Extra, Block{Keyword: keywordLine, Lines: lines})

	return nil
}

func (p *parser) intFields(f []string) ([]int, error) {
	out := make([]int, len(f))

	for i, s := range f {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer field %q: %w", p.lineNo, s, err)
		}

		out[i] = v
	}

	return out, nil
}
