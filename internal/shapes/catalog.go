package shapes

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("shape not found")

// Point is a 2D target point in frame coordinates (640x480 camera space).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Catalog is a read-only registry of named trace paths. Each path is an
// ordered sequence of points the player must reach in order.
type Catalog struct {
	shapes map[string][]Point
	names  []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatalog builds the default catalog. rng may be nil, in which case a
// time-seeded source is used; tests pass a seeded one.
func NewCatalog(rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Catalog{
		shapes: defaultShapes(),
		rng:    rng,
	}
	for name := range c.shapes {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c
}

// Get returns the ordered points of a named shape.
func (c *Catalog) Get(name string) ([]Point, error) {
	pts, ok := c.shapes[name]
	if !ok {
		return nil, ErrNotFound
	}
	return pts, nil
}

// RandomName picks a shape name uniformly.
func (c *Catalog) RandomName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[c.rng.Intn(len(c.names))]
}

// Names returns all registered shape names in stable order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func defaultShapes() map[string][]Point {
	return map[string][]Point{
		"square": {
			{X: 200, Y: 120}, {X: 440, Y: 120}, {X: 440, Y: 360}, {X: 200, Y: 360},
		},
		"triangle": {
			{X: 320, Y: 100}, {X: 480, Y: 380}, {X: 160, Y: 380},
		},
		"diamond": {
			{X: 320, Y: 80}, {X: 480, Y: 240}, {X: 320, Y: 400}, {X: 160, Y: 240},
		},
		"star": {
			{X: 320, Y: 70}, {X: 390, Y: 400}, {X: 150, Y: 190}, {X: 490, Y: 190}, {X: 250, Y: 400},
		},
		"zigzag": {
			{X: 120, Y: 150}, {X: 240, Y: 350}, {X: 360, Y: 150}, {X: 480, Y: 350},
		},
	}
}
