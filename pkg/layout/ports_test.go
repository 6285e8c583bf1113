package layout

import (
	"errors"
	"slices"
	"testing"
)

func TestPortsAdd(t *testing.T) {
	ps := NewPorts()

	if err := ps.Add(Port{Name: "e1"}); err != nil {
		t.Fatalf("Add(e1) error = %v", err)
	}
	if err := ps.Add(Port{Name: "e2"}); err != nil {
		t.Fatalf("Add(e2) error = %v", err)
	}

	if err := ps.Add(Port{Name: "e1"}); !errors.Is(err, ErrDuplicatePort) {
		t.Errorf("Add(duplicate) error = %v, want ErrDuplicatePort", err)
	}
	if err := ps.Add(Port{}); !errors.Is(err, ErrInvalidPortName) {
		t.Errorf("Add(unnamed) error = %v, want ErrInvalidPortName", err)
	}
	if ps.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ps.Len())
	}
}

func TestPortsGet(t *testing.T) {
	ps := NewPorts()
	ps.Add(Port{Name: "e1", Width: 10})

	p, err := ps.Get("e1")
	if err != nil {
		t.Fatalf("Get(e1) error = %v", err)
	}
	if p.Width != 10 {
		t.Errorf("Get(e1).Width = %v, want 10", p.Width)
	}

	if _, err := ps.Get("missing"); !errors.Is(err, ErrPortNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrPortNotFound", err)
	}
}

func TestPortsOrderPreserved(t *testing.T) {
	ps := NewPorts()
	names := []string{"b", "a", "d", "c"}
	for _, n := range names {
		if err := ps.Add(Port{Name: n}); err != nil {
			t.Fatalf("Add(%s) error = %v", n, err)
		}
	}

	if got := ps.Names(); !slices.Equal(got, names) {
		t.Errorf("Names() = %v, want insertion order %v", got, names)
	}

	if err := ps.Remove("a"); err != nil {
		t.Fatalf("Remove(a) error = %v", err)
	}
	want := []string{"b", "d", "c"}
	if got := ps.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() after remove = %v, want %v", got, want)
	}

	if err := ps.Remove("a"); !errors.Is(err, ErrPortNotFound) {
		t.Errorf("Remove(removed) error = %v, want ErrPortNotFound", err)
	}
}

func TestPortsSelect(t *testing.T) {
	ps := NewPorts()
	ps.Add(Port{Name: "o1", Type: PortTypeOptical})
	ps.Add(Port{Name: "e1", Type: PortTypeElectrical})
	ps.Add(Port{Name: "e2", Type: PortTypeElectrical})
	ps.Add(Port{Name: "o2", Type: PortTypeOptical})

	electrical := ps.Select(SelectElectrical)
	if len(electrical) != 2 || electrical[0].Name != "e1" || electrical[1].Name != "e2" {
		t.Errorf("Select(SelectElectrical) = %v, want [e1 e2]", portNames(electrical))
	}

	optical := ps.Select(SelectOptical)
	if len(optical) != 2 || optical[0].Name != "o1" {
		t.Errorf("Select(SelectOptical) = %v, want [o1 o2]", portNames(optical))
	}

	if got := ps.Select(SelectAll); len(got) != 4 {
		t.Errorf("Select(SelectAll) returned %d ports, want 4", len(got))
	}
	if got := ps.Select(nil); len(got) != 4 {
		t.Errorf("Select(nil) returned %d ports, want 4", len(got))
	}

	byType := ps.Select(SelectType(PortTypeOptical))
	if len(byType) != 2 {
		t.Errorf("Select(SelectType(optical)) returned %d ports, want 2", len(byType))
	}
}

func portNames(ports []Port) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}
