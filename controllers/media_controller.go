package controllers

import (
	"net/http"

	"pulse_server/services"
)

// MediaController hands out presigned URLs for media upload and read
type MediaController struct {
	Snapshots *services.SnapshotService
}

// NewMediaController creates a new MediaController instance
func NewMediaController(snapshots *services.SnapshotService) *MediaController {
	return &MediaController{Snapshots: snapshots}
}

// HandleUploadURL returns a presigned PUT URL plus the stored media key
func (mc *MediaController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		http.Error(w, "fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := mc.Snapshots.GenerateUploadURL(fileName, fileType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "mediaKey": key})
}

// HandleReadURL returns a presigned GET URL for a stored media key
func (mc *MediaController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("mediaKey")
	if key == "" {
		http.Error(w, "mediaKey is required", http.StatusBadRequest)
		return
	}

	url, err := mc.Snapshots.GenerateReadURL(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}
