package level

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalls/walls"
)

const (
	KeyObstacles    = "_obstacles"
	KeyCustomData   = "_customData"
	KeyCustomEvents = "_customEvents"
)

// Patch replaces the walls and the custom events of a level. It is not a
// merge: previous walls and all of the previous custom data are dropped.
type Patch struct {
	Obstacles []walls.Obstacle
	Events    []CustomEvent
}

type customData struct {
	CustomEvents []CustomEvent `json:"_customEvents"`
}

func rawKind(raw json.RawMessage) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

// Check verifies the document can take the patch: it must already have a
// wall list, and custom data, when present, must be an object.
func (p *Patch) Check(doc *Document) error {
	raw, ok := doc.Get(KeyObstacles)
	if !ok {
		return &DocumentError{Err: errors.Errorf("Missing %q", KeyObstacles)}
	}
	if rawKind(raw) != '[' {
		return &DocumentError{Err: errors.Errorf("%q is not a list", KeyObstacles)}
	}

	if raw, ok := doc.Get(KeyCustomData); ok {
		switch rawKind(raw) {
		case '{', 'n':
		default:
			return &DocumentError{Err: errors.Errorf("%q is not an object", KeyCustomData)}
		}
	}
	return nil
}

func (p *Patch) Apply(doc *Document) error {
	if err := p.Check(doc); err != nil {
		return err
	}

	obstacles := p.Obstacles
	if obstacles == nil {
		obstacles = []walls.Obstacle{}
	}
	events := p.Events
	if events == nil {
		events = []CustomEvent{}
	}

	if err := doc.Set(KeyObstacles, obstacles); err != nil {
		return &DocumentError{Err: err}
	}
	if err := doc.Set(KeyCustomData, &customData{CustomEvents: events}); err != nil {
		return &DocumentError{Err: err}
	}

	log.Printf("[level] Replaced %d walls and %d custom events", len(obstacles), len(events))
	return nil
}
