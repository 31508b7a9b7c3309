package game

import (
	"math"
	"sync"

	"megamind_api/internal/shapes"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session tracks one user's tracing progress over a chosen shape.
// All methods are safe for concurrent use; frames for the same user
// arriving out of order cannot push progress backwards.
type Session struct {
	mu        sync.Mutex
	shapeName string
	points    []shapes.Point
	progress  int
	sampled   bool
	hitRadius float64
}

// Segment connects two points of the trace for the renderer.
type Segment struct {
	From shapes.Point `json:"from"`
	To   shapes.Point `json:"to"`
}

// NumberedPoint is a not-yet-reached target with its display index.
// The renderer colors segment i and node i with palette[i mod len(palette)].
type NumberedPoint struct {
	Index int          `json:"index"`
	Point shapes.Point `json:"point"`
}

// RenderPlan tells the renderer what to draw; the core never touches pixels.
type RenderPlan struct {
	Connected []int           `json:"connected"` // indices of segments already traced
	Active    *Segment        `json:"active,omitempty"`
	Remaining []NumberedPoint `json:"remaining"`
}

// Snapshot is the state handed back to the transport after every frame.
type Snapshot struct {
	ShapeName string     `json:"shape_name"`
	Progress  int        `json:"progress"`
	Total     int        `json:"total"`
	Completed bool       `json:"completed"`
	Status    Status     `json:"status"`
	Plan      RenderPlan `json:"plan"`
}

func newSession(shapeName string, points []shapes.Point, hitRadius float64) *Session {
	return &Session{
		shapeName: shapeName,
		points:    points,
		hitRadius: hitRadius,
	}
}

// Advance consumes one fingertip sample. A nil fingertip means no detection
// this tick and skips the hit test. Progress moves by at most one point per
// call and only when the fingertip is strictly within the hit radius of the
// next unreached point. Once completed, Advance is a no-op until Reset.
func (s *Session) Advance(fingertip *shapes.Point) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sampled = true

	if fingertip != nil && s.progress < len(s.points) {
		target := s.points[s.progress]
		if dist(*fingertip, target) < s.hitRadius {
			s.progress++
		}
	}

	return s.snapshotLocked(fingertip)
}

// Snapshot returns the current state without consuming a sample.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(nil)
}

func (s *Session) reset(shapeName string, points []shapes.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapeName = shapeName
	s.points = points
	s.progress = 0
	s.sampled = false
}

func (s *Session) snapshotLocked(fingertip *shapes.Point) Snapshot {
	total := len(s.points)
	completed := s.progress == total

	snap := Snapshot{
		ShapeName: s.shapeName,
		Progress:  s.progress,
		Total:     total,
		Completed: completed,
		Status:    s.statusLocked(),
	}

	for i := 1; i < s.progress; i++ {
		snap.Plan.Connected = append(snap.Plan.Connected, i-1)
	}

	if !completed && s.progress > 0 && fingertip != nil {
		snap.Plan.Active = &Segment{From: s.points[s.progress-1], To: *fingertip}
	}

	for i := s.progress; i < total; i++ {
		snap.Plan.Remaining = append(snap.Plan.Remaining, NumberedPoint{Index: i, Point: s.points[i]})
	}

	return snap
}

func (s *Session) statusLocked() Status {
	switch {
	case s.progress == len(s.points):
		return StatusCompleted
	case s.progress > 0 || s.sampled:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

func dist(a, b shapes.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
