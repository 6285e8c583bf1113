package layer

import (
	"errors"
	"testing"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Layer
		wantErr bool
	}{
		{name: "pair", spec: "49/0", want: Layer{Number: 49, Datatype: 0}},
		{name: "pair with datatype", spec: "41/5", want: Layer{Number: 41, Datatype: 5}},
		{name: "number only", spec: "12", want: Layer{Number: 12}},
		{name: "spaces", spec: " 49 / 0 ", want: Layer{Number: 49}},
		{name: "not a number", spec: "M3", wantErr: true},
		{name: "bad datatype", spec: "49/x", wantErr: true},
		{name: "empty", spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePair(tt.spec)
			if tt.wantErr {
				if !errors.Is(err, ErrBadSpec) {
					t.Fatalf("ParsePair(%q) error = %v, want ErrBadSpec", tt.spec, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParsePair(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestStackResolve(t *testing.T) {
	s := DefaultStack()

	tests := []struct {
		name    string
		spec    string
		want    Layer
		wantErr error
	}{
		{name: "by name", spec: "M3", want: Layer{Number: 49}},
		{name: "case insensitive", spec: "m3", want: Layer{Number: 49}},
		{name: "alias shares pair", spec: "MTOP", want: Layer{Number: 49}},
		{name: "by pair", spec: "41/0", want: Layer{Number: 41}},
		{name: "pair not in stack", spec: "200/1", want: Layer{Number: 200, Datatype: 1}},
		{name: "unknown name", spec: "M9", wantErr: ErrUnknownLayer},
		{name: "empty", spec: "", wantErr: ErrBadSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.spec)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseStack(t *testing.T) {
	data := []byte(`
name = "test"

[[layers]]
name = "MET1"
layer = 8
datatype = 0
color = "#39bfff"
zmin = 0.64
thickness = 0.42

[[layers]]
name = "MET2"
layer = 10
datatype = 0
`)
	s, err := ParseStack(data)
	if err != nil {
		t.Fatalf("ParseStack() error = %v", err)
	}
	if s.Name != "test" {
		t.Errorf("Name = %q, want %q", s.Name, "test")
	}
	if len(s.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(s.Layers))
	}

	l, err := s.Resolve("met1")
	if err != nil {
		t.Fatalf("Resolve(met1) error = %v", err)
	}
	if l != (Layer{Number: 8}) {
		t.Errorf("Resolve(met1) = %v, want 8/0", l)
	}
	if got := s.Layers[0].ZMin; got != 0.64 {
		t.Errorf("ZMin = %v, want 0.64", got)
	}
}

func TestParseStackRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no layers", data: `name = "empty"`},
		{name: "unnamed layer", data: "[[layers]]\nlayer = 1\n"},
		{name: "not toml", data: "{json: true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStack([]byte(tt.data)); err == nil {
				t.Error("ParseStack() error = nil, want error")
			}
		})
	}
}

func TestStackLookupHelpers(t *testing.T) {
	s := DefaultStack()

	if got := s.NameFor(Layer{Number: 41}); got != "M1" {
		t.Errorf("NameFor(41/0) = %q, want M1", got)
	}
	if got := s.NameFor(Layer{Number: 250, Datatype: 3}); got != "250/3" {
		t.Errorf("NameFor(unknown) = %q, want pair spec", got)
	}
	if got := s.ColorFor(Layer{Number: 41}, "#000"); got != "#9370db" {
		t.Errorf("ColorFor(M1) = %q, want stack color", got)
	}
	if got := s.ColorFor(Layer{Number: 250}, "#000"); got != "#000" {
		t.Errorf("ColorFor(unknown) = %q, want fallback", got)
	}
}
