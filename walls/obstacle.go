package walls

import "sort"

// Obstacle is a v2 beatmap wall positioned through Noodle Extensions custom
// data. Lane index, type and width are not used for placement.
type Obstacle struct {
	Time       float64    `json:"_time"`
	LineIndex  int        `json:"_lineIndex"`
	Type       int        `json:"_type"`
	Duration   float64    `json:"_duration"`
	Width      int        `json:"_width"`
	CustomData CustomData `json:"_customData"`

	// source node, not part of the beatmap
	Name string `json:"-"`
}

type CustomData struct {
	Position                [2]float64  `json:"_position"`
	Scale                   [2]float64  `json:"_scale"`
	Rotation                float64     `json:"_rotation"`
	LocalRotation           [3]float64  `json:"_localRotation"`
	NoteJumpStartBeatOffset float64     `json:"_noteJumpStartBeatOffset"`
	Track                   string      `json:"_track"`
	Color                   *[4]float64 `json:"_color,omitempty"`
}

// SortByTime orders walls by time. Walls with equal time keep their order.
func SortByTime(obstacles []Obstacle) {
	sort.SliceStable(obstacles, func(i, j int) bool {
		return obstacles[i].Time < obstacles[j].Time
	})
}
