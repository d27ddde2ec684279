package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"

	"github.com/gorilla/mux"
)

// RegisterCheckInRoutes sets up routes for check-in operations under /api/checkins
func RegisterCheckInRoutes(r *mux.Router, checkInService *services.CheckInService, repo services.Repository, clock services.Clock) {
	controller := controllers.NewCheckInController(checkInService, repo, clock)

	checkInRouter := r.PathPrefix("/api/checkins").Subrouter()
	checkInRouter.HandleFunc("", controller.HandleCheckIn).Methods("POST")
	checkInRouter.HandleFunc("", controller.HandleCheckOut).Methods("DELETE")
	checkInRouter.HandleFunc("/active", controller.HandleActiveCheckIn).Methods("GET")
	checkInRouter.HandleFunc("/story", controller.HandleCreateStory).Methods("POST")
}
