package ws

import (
	"megamind_api/internal/game"
	"megamind_api/internal/shapes"
)

// client → server
type Envelope struct {
	Type      string        `json:"type"`
	Fingertip *shapes.Point `json:"fingertip,omitempty"` // absent = no detection this tick
	Shape     string        `json:"shape,omitempty"`     // reset only; empty = random
}

// server → client
type ResultPayload struct {
	Type string `json:"type"`
	game.Snapshot
}

type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
