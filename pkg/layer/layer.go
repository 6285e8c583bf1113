// Package layer defines GDS layer pairs and the process layer stack.
//
// A mask layer is identified by a (number, datatype) pair in GDSII.
// Design code refers to layers by process name ("M3") or by an explicit
// pair spec ("49/0"); a Stack resolves names and carries per-layer display
// and stackup data (color, z-height, thickness) loaded from a TOML tech
// file or from the built-in generic stack.
package layer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownLayer is returned by [Stack.Resolve] when a layer name is
	// not present in the stack.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrBadSpec is returned by [ParsePair] and [Stack.Resolve] when a
	// layer spec string is neither a known name nor a valid "number/datatype" pair.
	ErrBadSpec = errors.New("malformed layer spec")
)

// Layer identifies a GDSII drawing layer by number and datatype.
type Layer struct {
	Number   uint16 `json:"layer"`
	Datatype uint16 `json:"datatype"`
}

// String returns the pair spec form "number/datatype".
func (l Layer) String() string {
	return fmt.Sprintf("%d/%d", l.Number, l.Datatype)
}

// ParsePair parses an explicit "number/datatype" pair spec.
// The datatype may be omitted ("49" means "49/0").
func ParsePair(spec string) (Layer, error) {
	num, dt, found := strings.Cut(spec, "/")
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 16)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %q", ErrBadSpec, spec)
	}
	if !found {
		return Layer{Number: uint16(n)}, nil
	}
	d, err := strconv.ParseUint(strings.TrimSpace(dt), 10, 16)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %q", ErrBadSpec, spec)
	}
	return Layer{Number: uint16(n), Datatype: uint16(d)}, nil
}
