package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/maskfab/maskfab/pkg/geom"
)

// DocumentVersion is the current document schema version.
const DocumentVersion = 1

// Document is the canonical JSON serialization of a component hierarchy.
// Used for API responses, caching, and cross-tool exchange. The top cell
// and every cell reachable through references appear in the cell table,
// keyed by cell name; the format round-trips through [ToComponent].
type Document struct {
	Version int             `json:"version"`
	Top     string          `json:"top"`
	Cells   map[string]Cell `json:"cells"`
}

// Cell is the serialized form of one component.
type Cell struct {
	Name     string    `json:"name"`
	ID       string    `json:"id,omitempty"`
	Info     Info      `json:"info,omitempty"`
	Ports    []Port    `json:"ports,omitempty"`
	Polygons []Polygon `json:"polygons,omitempty"`
	Labels   []Label   `json:"labels,omitempty"`
	Refs     []CellRef `json:"refs,omitempty"`
	Locked   bool      `json:"locked,omitempty"`
}

// CellRef is the serialized form of one placed reference, pointing at a
// cell in the document's cell table by name.
type CellRef struct {
	Cell   string     `json:"cell"`
	Origin geom.Point `json:"origin"`
	ID     string     `json:"id,omitempty"`
}

// FromComponent converts a component hierarchy to its document form.
// Fails when two distinct components share a name, since names key the
// cell table.
func FromComponent(c *Component) (Document, error) {
	doc := Document{
		Version: DocumentVersion,
		Top:     c.Name(),
		Cells:   make(map[string]Cell),
	}
	seen := make(map[string]*Component)
	if err := collectCells(c, seen, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func collectCells(c *Component, seen map[string]*Component, doc *Document) error {
	if prev, ok := seen[c.name]; ok {
		if prev != c {
			return fmt.Errorf("duplicate cell name %q for distinct components", c.name)
		}
		return nil
	}
	seen[c.name] = c

	cell := Cell{
		Name:     c.name,
		ID:       c.id.String(),
		Ports:    c.Ports(),
		Polygons: c.Polygons(),
		Labels:   c.Labels(),
		Locked:   c.locked,
	}
	if len(c.info) > 0 {
		cell.Info = c.info
	}
	for _, r := range c.refs {
		cell.Refs = append(cell.Refs, CellRef{
			Cell:   r.cell.name,
			Origin: r.origin,
			ID:     r.id.String(),
		})
		if err := collectCells(r.cell, seen, doc); err != nil {
			return err
		}
	}
	doc.Cells[c.name] = cell
	return nil
}

// ToComponent rebuilds a component hierarchy from its document form.
// Cell identity is restored from the serialized IDs; cells without an ID
// get a fresh one.
func ToComponent(doc Document) (*Component, error) {
	if doc.Top == "" {
		return nil, fmt.Errorf("document has no top cell")
	}
	if _, ok := doc.Cells[doc.Top]; !ok {
		return nil, fmt.Errorf("top cell %q not in cell table", doc.Top)
	}

	built := make(map[string]*Component, len(doc.Cells))
	building := make(map[string]bool)
	c, err := buildCell(doc, doc.Top, built, building)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func buildCell(doc Document, name string, built map[string]*Component, building map[string]bool) (*Component, error) {
	if c, ok := built[name]; ok {
		return c, nil
	}
	if building[name] {
		return nil, fmt.Errorf("cell %q references itself through a cycle", name)
	}
	building[name] = true
	defer delete(building, name)

	cell, ok := doc.Cells[name]
	if !ok {
		return nil, fmt.Errorf("cell %q not in cell table", name)
	}

	c := NewComponent(name)
	if cell.ID != "" {
		id, err := uuid.Parse(cell.ID)
		if err != nil {
			return nil, fmt.Errorf("cell %q: parse id: %w", name, err)
		}
		c.id = id
	}
	for k, v := range cell.Info {
		c.info[k] = v
	}
	for _, p := range cell.Ports {
		if err := c.AddPort(p); err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
	}
	for _, poly := range cell.Polygons {
		if err := c.AddPolygon(poly.Layer, poly.Outline); err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
	}
	for _, l := range cell.Labels {
		if err := c.AddLabel(l.Text, l.Origin, l.Layer); err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
	}
	for _, rj := range cell.Refs {
		child, err := buildCell(doc, rj.Cell, built, building)
		if err != nil {
			return nil, err
		}
		ref, err := c.AddRef(child, rj.Origin)
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
		if rj.ID != "" {
			id, err := uuid.Parse(rj.ID)
			if err != nil {
				return nil, fmt.Errorf("cell %q: parse ref id: %w", name, err)
			}
			ref.id = id
		}
	}
	if cell.Locked {
		c.Lock()
	}
	built[name] = c
	return c, nil
}

// MarshalComponent converts a component hierarchy to JSON bytes.
// Cells are keyed by name, which Go's JSON encoder emits sorted, so the
// output is deterministic for a fixed hierarchy.
func MarshalComponent(c *Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeComponentTo(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalComponent decodes JSON bytes to a component hierarchy.
func UnmarshalComponent(data []byte) (*Component, error) {
	return readComponentFrom(bytes.NewReader(data))
}

// WriteComponent writes a component hierarchy as JSON to an io.Writer.
func WriteComponent(c *Component, w io.Writer) error {
	return writeComponentTo(c, w)
}

// WriteComponentFile writes a component hierarchy to a JSON file.
// The file is created with 0644 permissions.
func WriteComponentFile(c *Component, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeComponentTo(c, f)
}

// ReadComponent decodes a JSON document from an io.Reader.
func ReadComponent(r io.Reader) (*Component, error) {
	return readComponentFrom(r)
}

// ReadComponentFile reads a JSON document file.
func ReadComponentFile(path string) (*Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readComponentFrom(f)
}

func writeComponentTo(c *Component, w io.Writer) error {
	doc, err := FromComponent(c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readComponentFrom(r io.Reader) (*Component, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToComponent(doc)
}

// CellNames returns the names in the document's cell table, sorted.
func (d Document) CellNames() []string {
	names := make([]string, 0, len(d.Cells))
	for name := range d.Cells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
