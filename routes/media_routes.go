package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up routes for media presigned URLs under /api/media
func RegisterMediaRoutes(r *mux.Router, snapshots *services.SnapshotService) {
	controller := controllers.NewMediaController(snapshots)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()
	mediaRouter.HandleFunc("/uploadUrl", controller.HandleUploadURL).Methods("GET")
	mediaRouter.HandleFunc("/readUrl", controller.HandleReadURL).Methods("GET")
}
