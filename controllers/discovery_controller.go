package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse_server/models"
	"pulse_server/services"
)

// DiscoveryController handles candidate discovery queries
type DiscoveryController struct {
	Discovery      services.DiscoveryService
	CheckInService *services.CheckInService
	Repo           services.Repository
}

// NewDiscoveryController creates a new DiscoveryController instance
func NewDiscoveryController(checkInService *services.CheckInService, repo services.Repository) *DiscoveryController {
	return &DiscoveryController{CheckInService: checkInService, Repo: repo}
}

// HandleQuery filters the user pool against the viewer's criteria
func (dc *DiscoveryController) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ViewerID string                   `json:"viewerId"`
		Criteria models.DiscoveryCriteria `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ViewerID == "" {
		http.Error(w, "viewerId is required", http.StatusBadRequest)
		return
	}

	users, err := dc.Repo.FetchUsers(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}

	// The viewer never appears in their own candidate list.
	candidates := make([]models.UserProfile, 0, len(users))
	for _, user := range users {
		if user.UserID != request.ViewerID {
			candidates = append(candidates, user)
		}
	}

	viewerCheckIn := dc.CheckInService.ActiveCheckIn(request.ViewerID)
	positions := dc.CheckInService.Positions()
	filtered := dc.Discovery.FilterProfiles(candidates, viewerCheckIn, positions, request.Criteria)
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": filtered})
}
