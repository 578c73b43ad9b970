package id3

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrTreeFormat marks a saved tree the loader refused.
	ErrTreeFormat = errors.New("id3: invalid tree file")
	// ErrCSVFormat marks a training table the loader refused.
	ErrCSVFormat = errors.New("id3: invalid training csv")
)

// Save writes the tree in its text form: a comma-joined attribute-name header
// followed by the indented pretty-print of the nodes. The output parses back
// with Load, and a save/load/save cycle is byte-identical.
func (t *Tree) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(t.AttributeNames, ",")); err != nil {
		return err
	}
	if err := t.writeNode(bw, t.Root, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func (t *Tree) writeNode(w io.Writer, n *Node, indent int) error {
	pad := strings.Repeat(" ", indent)
	if n.IsLeaf() {
		_, err := fmt.Fprintf(w, "%sLEAF: %s\n", pad, n.Label)
		return err
	}
	name := t.AttributeNames[n.Attr]
	if _, err := fmt.Fprintf(w, "%sSPLIT ON: %s\n", pad, name); err != nil {
		return err
	}
	for _, v := range n.Order {
		if _, err := fmt.Fprintf(w, "%s  %s = %s:\n", pad, name, v); err != nil {
			return err
		}
		if err := t.writeNode(w, n.Children[v], indent+4); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a tree from its text form. Blank lines are skipped; everything
// else, including indentation, is significant, and any deviation aborts the
// load with an error naming the line.
func Load(r io.Reader) (*Tree, error) {
	sc := bufio.NewScanner(r)
	p := &treeParser{attrs: make(map[string]int)}
	var header []string
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header == nil {
			header = strings.Split(line, ",")
			for i, name := range header {
				p.attrs[name] = i
			}
			continue
		}
		p.lines = append(p.lines, parsedLine{no: lineNo, text: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("%w: missing attribute header", ErrTreeFormat)
	}

	root, err := p.parseNode(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.lines) {
		return nil, fmt.Errorf("%w: line %d: trailing content", ErrTreeFormat, p.lines[p.pos].no)
	}
	return &Tree{AttributeNames: header, Root: root}, nil
}

type parsedLine struct {
	no   int
	text string
}

type treeParser struct {
	lines []parsedLine
	pos   int
	attrs map[string]int
}

func (p *treeParser) parseNode(indent int) (*Node, error) {
	if p.pos >= len(p.lines) {
		return nil, fmt.Errorf("%w: unexpected end of tree", ErrTreeFormat)
	}
	line := p.lines[p.pos]
	if indentOf(line.text) != indent {
		return nil, fmt.Errorf("%w: line %d: unexpected indentation", ErrTreeFormat, line.no)
	}
	body := line.text[indent:]

	switch {
	case strings.HasPrefix(body, "LEAF: "):
		p.pos++
		return &Node{Label: strings.TrimPrefix(body, "LEAF: ")}, nil

	case strings.HasPrefix(body, "SPLIT ON: "):
		name := strings.TrimPrefix(body, "SPLIT ON: ")
		attr, ok := p.attrs[name]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown attribute %q", ErrTreeFormat, line.no, name)
		}
		p.pos++

		n := &Node{Attr: attr, Children: make(map[string]*Node)}
		branchPrefix := name + " = "
		for p.pos < len(p.lines) && indentOf(p.lines[p.pos].text) == indent+2 {
			branch := p.lines[p.pos]
			b := branch.text[indent+2:]
			if !strings.HasPrefix(b, branchPrefix) || !strings.HasSuffix(b, ":") {
				return nil, fmt.Errorf("%w: line %d: malformed branch %q", ErrTreeFormat, branch.no, b)
			}
			value := strings.TrimSuffix(strings.TrimPrefix(b, branchPrefix), ":")
			if _, dup := n.Children[value]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate branch %q", ErrTreeFormat, branch.no, value)
			}
			p.pos++
			child, err := p.parseNode(indent + 4)
			if err != nil {
				return nil, err
			}
			n.Order = append(n.Order, value)
			n.Children[value] = child
		}
		if len(n.Order) == 0 {
			return nil, fmt.Errorf("%w: line %d: split with no branches", ErrTreeFormat, line.no)
		}
		return n, nil

	default:
		return nil, fmt.Errorf("%w: line %d: %q", ErrTreeFormat, line.no, body)
	}
}

func indentOf(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// SaveFile writes the tree to path, creating or truncating it.
func (t *Tree) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("id3: save %s: %w", path, err)
	}
	if err := t.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("id3: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("id3: save %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a tree from path.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("id3: load %s: %w", path, err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("id3: load %s: %w", path, err)
	}
	return t, nil
}

// LoadCSV reads a training table: a header row naming the attributes with a
// trailing label column, then one example per row. Field counts must match
// the header; blank lines are ignored. A non-nil disc is applied to each
// attribute column, so continuous signals land in their buckets before
// training.
func LoadCSV(r io.Reader, disc *Discretizer) (DataSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return DataSet{}, fmt.Errorf("id3: csv header: %w", err)
	}
	if len(header) < 2 {
		return DataSet{}, fmt.Errorf("%w: header needs one attribute and a label column", ErrCSVFormat)
	}

	names := make([]string, len(header)-1)
	for i, name := range header[:len(header)-1] {
		names[i] = strings.TrimSpace(name)
	}
	ds := DataSet{AttributeNames: names}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return DataSet{}, fmt.Errorf("id3: csv: %w", err)
		}
		attrs := make([]string, len(names))
		for i, raw := range rec[:len(rec)-1] {
			v := strings.TrimSpace(raw)
			if disc != nil {
				v = disc.Apply(names[i], v)
			}
			attrs[i] = v
		}
		ds.Points = append(ds.Points, DataPoint{
			Attributes: attrs,
			Label:      strings.TrimSpace(rec[len(rec)-1]),
		})
	}
	return ds, nil
}

// LoadCSVFile reads a training table from path.
func LoadCSVFile(path string, disc *Discretizer) (DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return DataSet{}, fmt.Errorf("id3: load %s: %w", path, err)
	}
	defer f.Close()
	ds, err := LoadCSV(f, disc)
	if err != nil {
		return DataSet{}, fmt.Errorf("id3: load %s: %w", path, err)
	}
	return ds, nil
}
