package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"pulse_server/models"

	"github.com/google/uuid"
)

// CheckInService owns the set of active check-ins. It is the only component
// allowed to create or remove check-ins; location activity counts are always
// derived from its snapshot, never maintained elsewhere.
//
// The mutex is shared with MatchService and ChatService: all discovery/match
// state mutations happen in one serialized-access domain.
type CheckInService struct {
	mu    *sync.RWMutex
	clock Clock
	repo  Repository

	active map[string]*models.CheckIn // userID -> latest check-in
}

func NewCheckInService(mu *sync.RWMutex, clock Clock, repo Repository) *CheckInService {
	return &CheckInService{
		mu:     mu,
		clock:  clock,
		repo:   repo,
		active: make(map[string]*models.CheckIn),
	}
}

// CheckIn records the user's presence at a location for the default lifetime.
func (s *CheckInService) CheckIn(ctx context.Context, userID string, location models.Location, caption, mediaKey string) (*models.CheckIn, error) {
	return s.CheckInFor(ctx, userID, location, caption, mediaKey, models.DefaultCheckInLifetime)
}

// CheckInFor records the user's presence at a location for the given
// lifetime. Any previous active check-in for the user is superseded in the
// same critical section, so at most one check-in per user is ever active.
// The durable write happens first; on repository failure nothing changes.
func (s *CheckInService) CheckInFor(ctx context.Context, userID string, location models.Location, caption, mediaKey string, lifetime time.Duration) (*models.CheckIn, error) {
	if location.LocationID == "" {
		return nil, models.ErrInvalidLocation
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", models.ErrInvalidInput)
	}

	now := s.clock.Now()
	checkIn := &models.CheckIn{
		CheckInID:  uuid.NewString(),
		UserID:     userID,
		LocationID: location.LocationID,
		CreatedAt:  now.Format(time.RFC3339),
		ExpiresAt:  now.Add(lifetime).Format(time.RFC3339),
		Caption:    caption,
		MediaKey:   mediaKey,
		Coordinate: location.Coordinate,
	}

	if err := s.repo.CreateCheckIn(ctx, *checkIn); err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}

	s.mu.Lock()
	previous := s.active[userID]
	s.active[userID] = checkIn
	s.mu.Unlock()

	if previous != nil {
		// The in-memory swap above already superseded the old check-in;
		// this only removes its durable record.
		if err := s.repo.DeleteCheckIn(ctx, previous.CheckInID); err != nil {
			log.Printf("❌ Failed to delete superseded check-in %s: %v", previous.CheckInID, err)
		}
	}

	return checkIn, nil
}

// CheckOut removes the user's active check-in. Checking out without an
// active check-in is a no-op, not an error. The durable delete happens
// first; on repository failure the check-in stays fully in place.
func (s *CheckInService) CheckOut(ctx context.Context, userID string) error {
	s.mu.RLock()
	checkIn, ok := s.active[userID]
	s.mu.RUnlock()

	if !ok {
		return nil
	}
	if err := s.repo.DeleteCheckIn(ctx, checkIn.CheckInID); err != nil {
		log.Printf("❌ Failed to delete check-in %s: %v", checkIn.CheckInID, err)
		return fmt.Errorf("failed to delete check-in: %w", err)
	}

	s.mu.Lock()
	if current, stillActive := s.active[userID]; stillActive && current.CheckInID == checkIn.CheckInID {
		delete(s.active, userID)
	}
	s.mu.Unlock()
	return nil
}

// ActiveCheckIn returns the user's check-in if it has not expired.
func (s *CheckInService) ActiveCheckIn(userID string) *models.CheckIn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkIn, ok := s.active[userID]
	if !ok || !s.isActiveLocked(checkIn) {
		return nil
	}
	copied := *checkIn
	return &copied
}

// IsActive reports whether a check-in has not yet expired.
func (s *CheckInService) IsActive(checkIn *models.CheckIn) bool {
	if checkIn == nil {
		return false
	}
	return s.clock.Now().Before(checkIn.Expiry())
}

func (s *CheckInService) isActiveLocked(checkIn *models.CheckIn) bool {
	return s.clock.Now().Before(checkIn.Expiry())
}

// Snapshot returns a copy of all currently active check-ins. Expiry is
// evaluated lazily here, so counts derived from the snapshot are exact at
// the instant of the call.
func (s *CheckInService) Snapshot() []models.CheckIn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkIns := make([]models.CheckIn, 0, len(s.active))
	for _, checkIn := range s.active {
		if s.isActiveLocked(checkIn) {
			checkIns = append(checkIns, *checkIn)
		}
	}
	return checkIns
}

// Restore seeds the store from a persisted snapshot, keeping only check-ins
// that are still active. Used once at startup.
func (s *CheckInService) Restore(checkIns []models.CheckIn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range checkIns {
		checkIn := checkIns[i]
		if !s.isActiveLocked(&checkIn) {
			continue
		}
		existing, ok := s.active[checkIn.UserID]
		if ok && existing.CreatedAt >= checkIn.CreatedAt {
			continue
		}
		s.active[checkIn.UserID] = &checkIn
	}
}

// ActiveAtLocation returns the active check-ins at a location.
func (s *CheckInService) ActiveAtLocation(locationID string) []models.CheckIn {
	var checkIns []models.CheckIn
	for _, checkIn := range s.Snapshot() {
		if checkIn.LocationID == locationID {
			checkIns = append(checkIns, checkIn)
		}
	}
	return checkIns
}

// Positions returns userID -> coordinate for every active check-in, used by
// discovery's distance filter.
func (s *CheckInService) Positions() map[string]models.Coordinate {
	positions := make(map[string]models.Coordinate)
	for _, checkIn := range s.Snapshot() {
		positions[checkIn.UserID] = checkIn.Coordinate
	}
	return positions
}
