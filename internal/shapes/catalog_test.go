package shapes

import (
	"math/rand"
	"testing"
)

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog(nil)

	for _, name := range c.Names() {
		pts, err := c.Get(name)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", name, err)
		}
		if len(pts) < 2 {
			t.Errorf("shape %q has %d points, want at least 2", name, len(pts))
		}
	}

	if _, err := c.Get("hexagon-of-doom"); err != ErrNotFound {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestCatalog_RandomName_Deterministic(t *testing.T) {
	a := NewCatalog(rand.New(rand.NewSource(7)))
	b := NewCatalog(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		na, nb := a.RandomName(), b.RandomName()
		if na != nb {
			t.Fatalf("pick %d differs: %q vs %q", i, na, nb)
		}
		if _, err := a.Get(na); err != nil {
			t.Fatalf("RandomName returned unregistered shape %q", na)
		}
	}
}

func TestCatalog_RandomName_CoversAll(t *testing.T) {
	c := NewCatalog(rand.New(rand.NewSource(1)))

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		seen[c.RandomName()] = true
	}

	for _, name := range c.Names() {
		if !seen[name] {
			t.Errorf("shape %q never picked in 500 draws", name)
		}
	}
}
