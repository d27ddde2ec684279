package services

import "pulse_server/models"

// ActivityService is the location activity index. Counts are recomputed from
// the check-in set on every read, so they can never drift from the store;
// there is no increment/decrement path to keep paired.
type ActivityService struct {
	CheckIns *CheckInService
}

// CountFor returns the number of active check-ins at a location, always >= 0.
func (s *ActivityService) CountFor(locationID string) int {
	return len(s.CheckIns.ActiveAtLocation(locationID))
}

// Counts returns active-user counts for every location with at least one
// active check-in.
func (s *ActivityService) Counts() map[string]int {
	counts := make(map[string]int)
	for _, checkIn := range s.CheckIns.Snapshot() {
		counts[checkIn.LocationID]++
	}
	return counts
}

// HeatLevelFor bands a count into a heat level. Pure function of the count.
func HeatLevelFor(count int) models.HeatLevel {
	switch {
	case count <= models.HeatCoolMax:
		return models.HeatCool
	case count <= models.HeatWarmMax:
		return models.HeatWarm
	case count <= models.HeatHotMax:
		return models.HeatHot
	default:
		return models.HeatVeryHot
	}
}
