package level

const (
	EventAssignPathAnimation = "AssignPathAnimation"
	EventAnimateTrack        = "AnimateTrack"
)

// Keyframe is [dissolve, time]: visibility from 0 to 1 at a normalized
// point of the animation.
type Keyframe [2]float64

type EventData struct {
	Track    string     `json:"_track"`
	Duration float64    `json:"_duration"`
	Dissolve []Keyframe `json:"_dissolve"`
}

type CustomEvent struct {
	Time float64   `json:"_time"`
	Type string    `json:"_type"`
	Data EventData `json:"_data"`
}

// FadeEvents fades walls of the track in over the first quarter of their
// jump, and fades the whole track out at fadeOutTime. Path and track
// dissolve multiply, so both apply.
func FadeEvents(track string, fadeOutTime, fadeOutDuration float64) []CustomEvent {
	return []CustomEvent{
		{
			Time: 0,
			Type: EventAssignPathAnimation,
			Data: EventData{
				Track:    track,
				Duration: 0,
				Dissolve: []Keyframe{{0, 0}, {1, 0.25}},
			},
		},
		{
			Time: fadeOutTime,
			Type: EventAnimateTrack,
			Data: EventData{
				Track:    track,
				Duration: fadeOutDuration,
				Dissolve: []Keyframe{{1, 0}, {0, 1}},
			},
		},
	}
}
