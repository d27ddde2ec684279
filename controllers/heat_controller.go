package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse_server/models"
	"pulse_server/services"
)

// HeatController serves location activity counts and viewport heat maps
type HeatController struct {
	Activity *services.ActivityService
	Heat     services.HeatService
	Repo     services.Repository
}

// NewHeatController creates a new HeatController instance
func NewHeatController(activity *services.ActivityService, heat services.HeatService, repo services.Repository) *HeatController {
	return &HeatController{Activity: activity, Heat: heat, Repo: repo}
}

// HandleCounts returns per-location active-user counts with heat bands
func (hc *HeatController) HandleCounts(w http.ResponseWriter, r *http.Request) {
	counts := hc.Activity.Counts()

	type entry struct {
		LocationID string           `json:"locationId"`
		Count      int              `json:"count"`
		Band       models.HeatLevel `json:"band"`
		Emoji      string           `json:"emoji"`
	}
	entries := make([]entry, 0, len(counts))
	for locationID, count := range counts {
		band := services.HeatLevelFor(count)
		entries = append(entries, entry{LocationID: locationID, Count: count, Band: band, Emoji: band.Emoji()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": entries})
}

// HandleHeatMap projects active locations into a viewport as heat points
func (hc *HeatController) HandleHeatMap(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Viewport models.Viewport `json:"viewport"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	locations, err := hc.Repo.FetchLocations(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}

	points, err := hc.Heat.HeatMap(locations, request.Viewport)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": points})
}
