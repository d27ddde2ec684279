package services

import (
	"fmt"
	"hash/fnv"
	"math"

	"pulse_server/models"
)

// Heat visual tuning. Radius and intensity both grow monotonically with the
// active-user count.
const (
	heatBaseRadiusPx = 14.0
	heatRadiusStepPx = 6.0
	heatMaxRadiusPx  = 64.0
	jitterRadiusPx   = 9.0
)

// HeatService turns activity counts into placed heat visuals. Both HeatFor
// and Project are pure: no hidden state, identical inputs give identical
// outputs.
type HeatService struct {
	Activity *ActivityService
}

// HeatFor derives the visual radius, intensity and band for a count.
func (HeatService) HeatFor(count int) (radius, intensity float64, band models.HeatLevel) {
	if count < 0 {
		count = 0
	}
	radius = heatBaseRadiusPx + heatRadiusStepPx*math.Sqrt(float64(count))
	if radius > heatMaxRadiusPx {
		radius = heatMaxRadiusPx
	}
	intensity = float64(count) / float64(models.HeatHotMax+1)
	if intensity > 1 {
		intensity = 1
	}
	return radius, intensity, HeatLevelFor(count)
}

// Project maps a geographic coordinate into viewport pixel space using a
// linear equirectangular mapping. Span components must be positive and every
// input finite.
func (HeatService) Project(coord models.Coordinate, viewport models.Viewport) (x, y float64, err error) {
	if viewport.SpanLat <= 0 || viewport.SpanLon <= 0 {
		return 0, 0, fmt.Errorf("%w: span must be positive", models.ErrInvalidCoordinate)
	}
	for _, v := range []float64{
		coord.Latitude, coord.Longitude,
		viewport.Center.Latitude, viewport.Center.Longitude,
		viewport.SpanLat, viewport.SpanLon, viewport.WidthPx, viewport.HeightPx,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: non-finite input", models.ErrInvalidCoordinate)
		}
	}

	x = viewport.WidthPx/2 - ((viewport.Center.Longitude-coord.Longitude)/viewport.SpanLon)*viewport.WidthPx
	y = viewport.HeightPx/2 + ((viewport.Center.Latitude-coord.Latitude)/viewport.SpanLat)*viewport.HeightPx
	return x, y, nil
}

// ProjectEntity projects a coordinate and applies a deterministic angular
// offset derived from the entity id, so entities sharing a coordinate are
// separated without overlapping.
func (s HeatService) ProjectEntity(entityID string, coord models.Coordinate, viewport models.Viewport) (x, y float64, err error) {
	x, y, err = s.Project(coord, viewport)
	if err != nil {
		return 0, 0, err
	}
	if entityID == "" {
		return x, y, nil
	}
	angle := jitterAngle(entityID)
	return x + jitterRadiusPx*math.Cos(angle), y + jitterRadiusPx*math.Sin(angle), nil
}

// HeatMap builds placed heat points for every location visible in the
// viewport that has at least one active check-in.
func (s HeatService) HeatMap(locations []models.Location, viewport models.Viewport) ([]models.HeatPoint, error) {
	counts := s.Activity.Counts()

	var points []models.HeatPoint
	for _, location := range locations {
		count := counts[location.LocationID]
		if count == 0 {
			continue
		}
		x, y, err := s.ProjectEntity(location.LocationID, location.Coordinate, viewport)
		if err != nil {
			return nil, err
		}
		radius, intensity, band := s.HeatFor(count)
		points = append(points, models.HeatPoint{
			LocationID: location.LocationID,
			X:          x,
			Y:          y,
			Radius:     radius,
			Intensity:  intensity,
			Band:       band,
			Count:      count,
		})
	}
	return points, nil
}

// jitterAngle hashes an entity id onto [0, 2π).
func jitterAngle(entityID string) float64 {
	h := fnv.New32a()
	h.Write([]byte(entityID))
	return float64(h.Sum32()%360) * math.Pi / 180
}
