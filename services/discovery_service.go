package services

import (
	"math"
	"strings"

	"pulse_server/models"
)

// DiscoveryService filters the candidate pool against the viewer's criteria.
// Filtering is a pure function of its inputs: same candidates, same criteria,
// same positions -> same output in the same order.
type DiscoveryService struct{}

// FilterProfiles applies every enabled criterion, ANDed. Input order is
// preserved for candidates that pass.
//
// viewerCheckIn and positions feed the distance filter: it only applies when
// MaxDistanceKm > 0 AND the viewer has an active check-in. A candidate whose
// position is unknown passes the distance filter rather than being excluded.
func (DiscoveryService) FilterProfiles(
	candidates []models.UserProfile,
	viewerCheckIn *models.CheckIn,
	positions map[string]models.Coordinate,
	criteria models.DiscoveryCriteria,
) []models.UserProfile {
	filtered := make([]models.UserProfile, 0, len(candidates))
	for _, candidate := range candidates {
		if !matchesQuery(candidate, criteria.Query) {
			continue
		}
		if !matchesAge(candidate, criteria.MinAge, criteria.MaxAge) {
			continue
		}
		if !matchesDistance(candidate, viewerCheckIn, positions, criteria.MaxDistanceKm) {
			continue
		}
		if !intersects(candidate.Interests, criteria.Interests) {
			continue
		}
		if !matchesAttribute(candidate.Drinking, criteria.Drinking) {
			continue
		}
		if !matchesAttribute(candidate.Smoking, criteria.Smoking) {
			continue
		}
		if !matchesAttribute(candidate.Kids, criteria.Kids) {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// matchesQuery does a case-insensitive substring search over name, bio, job
// and interests.
func matchesQuery(candidate models.UserProfile, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(candidate.Name), needle) ||
		strings.Contains(strings.ToLower(candidate.Bio), needle) ||
		strings.Contains(strings.ToLower(candidate.Job), needle) {
		return true
	}
	for _, interest := range candidate.Interests {
		if strings.Contains(strings.ToLower(interest), needle) {
			return true
		}
	}
	return false
}

// matchesAge checks the inclusive [min, max] range. MaxAge == 0 disables the
// upper bound; MinAge == 0 disables the lower bound.
func matchesAge(candidate models.UserProfile, minAge, maxAge int) bool {
	if minAge > 0 && candidate.Age < minAge {
		return false
	}
	if maxAge > 0 && candidate.Age > maxAge {
		return false
	}
	return true
}

// matchesDistance enforces the great-circle distance limit. Candidates with
// an unknown position pass rather than being over-filtered.
func matchesDistance(candidate models.UserProfile, viewerCheckIn *models.CheckIn, positions map[string]models.Coordinate, maxKm float64) bool {
	if maxKm <= 0 || viewerCheckIn == nil {
		return true
	}
	position, known := positions[candidate.UserID]
	if !known {
		return true
	}
	return HaversineKm(viewerCheckIn.Coordinate, position) <= maxKm
}

// intersects passes when no interest filter is set, or the candidate shares
// at least one interest with it. Comparison is case-insensitive.
func intersects(candidateInterests, filterInterests []string) bool {
	if len(filterInterests) == 0 {
		return true
	}
	for _, want := range filterInterests {
		for _, have := range candidateInterests {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

// matchesAttribute checks categorical membership (drinking/smoking/kids).
// Once the filter is non-empty a candidate without the attribute is excluded.
func matchesAttribute(value *string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if value == nil {
		return false
	}
	for _, v := range allowed {
		if strings.EqualFold(v, *value) {
			return true
		}
	}
	return false
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(a, b models.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
