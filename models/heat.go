package models

// HeatLevel is a banded classification of a location's active-user count.
// It is purely a presentation projection of the count.
type HeatLevel string

const (
	HeatCool    HeatLevel = "cool"
	HeatWarm    HeatLevel = "warm"
	HeatHot     HeatLevel = "hot"
	HeatVeryHot HeatLevel = "veryHot"
)

// Band thresholds: a count at or below the threshold falls in that band.
const (
	HeatCoolMax = 1
	HeatWarmMax = 4
	HeatHotMax  = 9
)

// Emoji returns the display glyph for a heat band.
func (h HeatLevel) Emoji() string {
	switch h {
	case HeatWarm:
		return "🙂"
	case HeatHot:
		return "🔥"
	case HeatVeryHot:
		return "🚀"
	default:
		return "❄️"
	}
}

// HeatPoint is a placed, sized heat visual ready for rendering.
type HeatPoint struct {
	LocationID string    `json:"locationId"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Radius     float64   `json:"radius"`
	Intensity  float64   `json:"intensity"`
	Band       HeatLevel `json:"band"`
	Count      int       `json:"count"`
}
