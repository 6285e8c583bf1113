package layer

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// StackLayer is one named layer of a process stack. ZMin and Thickness
// describe the vertical extent in micrometers and are only used for
// display and 3D export; mask geometry itself is purely 2D.
type StackLayer struct {
	Name      string  `toml:"name" json:"name"`
	Number    uint16  `toml:"layer" json:"layer"`
	Datatype  uint16  `toml:"datatype" json:"datatype"`
	Color     string  `toml:"color" json:"color,omitempty"`
	ZMin      float64 `toml:"zmin" json:"zmin"`
	Thickness float64 `toml:"thickness" json:"thickness"`
}

// Layer returns the GDS pair for this stack layer.
func (s StackLayer) Layer() Layer {
	return Layer{Number: s.Number, Datatype: s.Datatype}
}

// Stack is an ordered set of named process layers.
// Layer names are matched case-insensitively. The zero value is not
// usable; build stacks with DefaultStack, LoadStack, or ParseStack.
type Stack struct {
	Name   string       `toml:"name"`
	Layers []StackLayer `toml:"layers"`

	byName map[string]int
}

// DefaultStack returns the built-in generic metal stack. It covers a
// waveguide layer plus three routing metals with vias, which is enough
// for pad breakout on test layouts without a foundry tech file.
func DefaultStack() *Stack {
	s := &Stack{
		Name: "generic",
		Layers: []StackLayer{
			{Name: "WG", Number: 1, Datatype: 0, Color: "#708090", ZMin: 0.0, Thickness: 0.22},
			{Name: "M1", Number: 41, Datatype: 0, Color: "#9370db", ZMin: 1.1, Thickness: 0.7},
			{Name: "VIA1", Number: 44, Datatype: 0, Color: "#8b4513", ZMin: 1.8, Thickness: 0.7},
			{Name: "M2", Number: 45, Datatype: 0, Color: "#4682b4", ZMin: 2.5, Thickness: 0.7},
			{Name: "VIA2", Number: 43, Datatype: 0, Color: "#a0522d", ZMin: 3.2, Thickness: 0.7},
			{Name: "M3", Number: 49, Datatype: 0, Color: "#00ced1", ZMin: 3.9, Thickness: 2.0},
			{Name: "MTOP", Number: 49, Datatype: 0, Color: "#00ced1", ZMin: 3.9, Thickness: 2.0},
		},
	}
	s.index()
	return s
}

// LoadStack reads a TOML tech file from path.
func LoadStack(path string) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tech file: %w", err)
	}
	s, err := ParseStack(data)
	if err != nil {
		return nil, fmt.Errorf("parse tech file %s: %w", path, err)
	}
	return s, nil
}

// ParseStack parses TOML tech file contents. The expected shape is a
// stack name plus a [[layers]] table array:
//
//	name = "sg13g2"
//
//	[[layers]]
//	name = "Metal1"
//	layer = 8
//	datatype = 0
//	color = "#39bfff"
//	zmin = 0.64
//	thickness = 0.42
func ParseStack(data []byte) (*Stack, error) {
	var s Stack
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Layers) == 0 {
		return nil, fmt.Errorf("tech file defines no layers")
	}
	for i, l := range s.Layers {
		if l.Name == "" {
			return nil, fmt.Errorf("layer %d has no name", i)
		}
	}
	s.index()
	return &s, nil
}

func (s *Stack) index() {
	s.byName = make(map[string]int, len(s.Layers))
	for i, l := range s.Layers {
		key := strings.ToLower(l.Name)
		if _, dup := s.byName[key]; !dup {
			s.byName[key] = i
		}
	}
}

// Get returns the stack layer with the given name.
func (s *Stack) Get(name string) (StackLayer, error) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return StackLayer{}, fmt.Errorf("%w: %q in stack %q", ErrUnknownLayer, name, s.Name)
	}
	return s.Layers[i], nil
}

// Resolve resolves a layer spec to a GDS pair. The spec is either a layer
// name defined in the stack ("M3") or an explicit pair ("49/0").
// Names take precedence over pair parsing.
func (s *Stack) Resolve(spec string) (Layer, error) {
	if spec == "" {
		return Layer{}, fmt.Errorf("%w: empty spec", ErrBadSpec)
	}
	if l, err := s.Get(spec); err == nil {
		return l.Layer(), nil
	}
	if l, err := ParsePair(spec); err == nil {
		return l, nil
	}
	return Layer{}, fmt.Errorf("%w: %q", ErrUnknownLayer, spec)
}

// ColorFor returns the display color for a GDS pair, searching the stack
// for the first layer with that pair. Returns fallback when no stack
// layer matches.
func (s *Stack) ColorFor(l Layer, fallback string) string {
	for _, sl := range s.Layers {
		if sl.Layer() == l && sl.Color != "" {
			return sl.Color
		}
	}
	return fallback
}

// NameFor returns the stack name for a GDS pair, or the pair spec string
// when the pair is not part of the stack.
func (s *Stack) NameFor(l Layer) string {
	for _, sl := range s.Layers {
		if sl.Layer() == l {
			return sl.Name
		}
	}
	return l.String()
}
