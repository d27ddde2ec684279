package models

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
}

// Location is a place users can check in at. ActiveUserCount is derived from
// the check-in set on read; it is never the source of truth.
type Location struct {
	LocationID      string     `dynamodbav:"locationId" json:"locationId"`
	Name            string     `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Category        string     `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Coordinate      Coordinate `dynamodbav:"coordinate" json:"coordinate"`
	ActiveUserCount int        `dynamodbav:"-" json:"activeUserCount"`
}

// LocationsTable is the DynamoDB table name for locations
const LocationsTable = "Locations"

// Viewport describes the visible region of the map plus its pixel size,
// used when projecting coordinates into screen space.
type Viewport struct {
	Center   Coordinate `json:"center"`
	SpanLat  float64    `json:"spanLat"`
	SpanLon  float64    `json:"spanLon"`
	WidthPx  float64    `json:"widthPx"`
	HeightPx float64    `json:"heightPx"`
}
