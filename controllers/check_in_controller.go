package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pulse_server/models"
	"pulse_server/services"
)

// CheckInController handles HTTP requests for check-ins and stories
type CheckInController struct {
	CheckInService *services.CheckInService
	Repo           services.Repository
	Clock          services.Clock
}

// NewCheckInController creates a new CheckInController instance
func NewCheckInController(checkInService *services.CheckInService, repo services.Repository, clock services.Clock) *CheckInController {
	return &CheckInController{CheckInService: checkInService, Repo: repo, Clock: clock}
}

// HandleCheckIn creates a check-in, superseding any previous active one
func (cc *CheckInController) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string          `json:"userId"`
		Location models.Location `json:"location"`
		Caption  string          `json:"caption"`
		MediaKey string          `json:"mediaKey"`
		Lifetime string          `json:"lifetime"` // optional Go duration string
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	lifetime := models.DefaultCheckInLifetime
	if request.Lifetime != "" {
		parsed, err := time.ParseDuration(request.Lifetime)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid lifetime", http.StatusBadRequest)
			return
		}
		lifetime = parsed
	}

	checkIn, err := cc.CheckInService.CheckInFor(context.Background(), request.UserID, request.Location, request.Caption, request.MediaKey, lifetime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkIn)
}

// HandleCheckOut removes the user's active check-in; no-op if none exists
func (cc *CheckInController) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := cc.CheckInService.CheckOut(context.Background(), request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Checked out"})
}

// HandleActiveCheckIn returns the user's active check-in, if any
func (cc *CheckInController) HandleActiveCheckIn(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	checkIn := cc.CheckInService.ActiveCheckIn(userID)
	if checkIn == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"active": true, "checkIn": checkIn})
}

// HandleCreateStory persists an ephemeral media post
func (cc *CheckInController) HandleCreateStory(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID     string `json:"userId"`
		LocationID string `json:"locationId"`
		Caption    string `json:"caption"`
		MediaKey   string `json:"mediaKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.MediaKey == "" {
		http.Error(w, "userId and mediaKey are required", http.StatusBadRequest)
		return
	}

	story := models.Story{
		UserID:     request.UserID,
		LocationID: request.LocationID,
		Caption:    request.Caption,
		MediaKey:   request.MediaKey,
		CreatedAt:  cc.Clock.Now().Format(time.RFC3339),
	}
	if err := cc.Repo.CreateStory(context.Background(), story); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Story created"})
}
