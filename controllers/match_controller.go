package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse_server/services"
	"pulse_server/socket"
)

// MatchController handles like/undo/block actions and match queries
type MatchController struct {
	MatchService *services.MatchService
	Repo         services.Repository
	Hub          *socket.Hub
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, repo services.Repository, hub *socket.Hub) *MatchController {
	return &MatchController{MatchService: matchService, Repo: repo, Hub: hub}
}

// HandleLike records a like; responds with the match if one was created
func (mc *MatchController) HandleLike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.TargetUserID == "" {
		http.Error(w, "userId and targetUserId are required", http.StatusBadRequest)
		return
	}

	match, err := mc.MatchService.Like(context.Background(), request.UserID, request.TargetUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if match == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "User liked successfully", "matched": false})
		return
	}
	mc.Hub.BroadcastMatch(*match)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "It's a match!", "matched": true, "match": match})
}

// HandleUndo reverses the user's most recent like
func (mc *MatchController) HandleUndo(w http.ResponseWriter, r *http.Request) {
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

	if err := mc.MatchService.UndoLastLike(context.Background(), request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Like undone"})
}

// HandleBlock blocks a pair, removing any match and conversation between them
func (mc *MatchController) HandleBlock(w http.ResponseWriter, r *http.Request) {
	mc.handleBlockAction(w, r, true)
}

// HandleUnblock lifts a block
func (mc *MatchController) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	mc.handleBlockAction(w, r, false)
}

func (mc *MatchController) handleBlockAction(w http.ResponseWriter, r *http.Request, block bool) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.TargetUserID == "" {
		http.Error(w, "userId and targetUserId are required", http.StatusBadRequest)
		return
	}

	if block {
		if err := mc.MatchService.Block(context.Background(), request.UserID, request.TargetUserID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
		return
	}
	mc.MatchService.Unblock(request.UserID, request.TargetUserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User unblocked"})
}

// HandleGetLikes returns the user's outbound and inbound like edges as
// recorded durably
func (mc *MatchController) HandleGetLikes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	outbound, err := mc.Repo.FetchLikes(context.Background(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	inbound, err := mc.Repo.FetchInboundLikes(context.Background(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"outbound": outbound, "inbound": inbound})
}

// HandleGetMatches returns the user's matches
func (mc *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": mc.MatchService.MatchesFor(userID)})
}
