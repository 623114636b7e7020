package grid

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "/", false},
		{"/", "/", false},
		{"0", "0", false},
		{"/0/2/1", "0/2/1", false},
		{" 3/1 ", "3/1", false},
		{"0//1", "", true},
		{"0/1/", "", true},
		{"a/1", "", true},
		{"-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPath) {
					t.Fatalf("ParsePath(%q) error = %v, want ErrInvalidPath", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v", tt.input, err)
			}
			if p.String() != tt.want {
				t.Errorf("ParsePath(%q) = %s, want %s", tt.input, p, tt.want)
			}
		})
	}
}

func TestResolveAndPathOf(t *testing.T) {
	root, a, b := buildKitchen(t)

	cases := map[string]Node{
		"/":     root,
		"0":     a,
		"0/0":   b,
		"0/0/0": b.Children()[0],
		"0/1":   a.Children()[1],
	}

	for input, want := range cases {
		p, err := ParsePath(input)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", input, err)
		}
		got, err := Resolve(root, p)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", p, err)
		}
		if got != want {
			t.Errorf("Resolve(%s) = %s %s, want %s %s", p, got.Kind(), got.ID(), want.Kind(), want.ID())
		}

		back, err := PathOf(got)
		if err != nil {
			t.Fatalf("PathOf(%s): %v", p, err)
		}
		if back.String() != p.String() {
			t.Errorf("PathOf = %s, want %s", back, p)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	root, _, _ := buildKitchen(t)

	for _, input := range []string{"1", "0/3", "0/1/0"} {
		p, err := ParsePath(input)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", input, err)
		}
		if _, err := Resolve(root, p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Resolve(%s) error = %v, want ErrInvalidPath", p, err)
		}
	}

	if _, err := Resolve(nil, Path{}); !errors.Is(err, ErrNilNode) {
		t.Errorf("Resolve(nil) error = %v, want ErrNilNode", err)
	}
}

func TestPathOfDetachedOutlet(t *testing.T) {
	root, err := NewWallStrip("", 1)
	if err != nil {
		t.Fatal(err)
	}
	o := root.FreeOutlet()
	stray := NewOutlet(FromStrip(root))

	if _, err := PathOf(stray); !errors.Is(err, ErrNotFound) {
		t.Errorf("PathOf(stray) error = %v, want ErrNotFound", err)
	}
	p, err := PathOf(o)
	if err != nil || p.String() != "0" {
		t.Errorf("PathOf(o) = %v, %v; want 0", p, err)
	}
}

func TestWalkStops(t *testing.T) {
	root, _, _ := buildKitchen(t)
	stop := errors.New("stop")

	visited := 0
	err := Walk(root, func(p Path, n Node) error {
		visited++
		if p.String() == "0/0" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Walk error = %v, want stop", err)
	}
	if visited != 3 {
		t.Errorf("visited = %d, want 3", visited)
	}
}
