package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoveryRoutes sets up routes for discovery queries under /api/discovery
func RegisterDiscoveryRoutes(r *mux.Router, checkInService *services.CheckInService, repo services.Repository) {
	controller := controllers.NewDiscoveryController(checkInService, repo)

	discoveryRouter := r.PathPrefix("/api/discovery").Subrouter()
	discoveryRouter.HandleFunc("/query", controller.HandleQuery).Methods("POST")
}
