package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"

	"github.com/gorilla/mux"
)

// RegisterHeatRoutes sets up routes for heat/activity queries under /api/heat
func RegisterHeatRoutes(r *mux.Router, activity *services.ActivityService, heat services.HeatService, repo services.Repository) {
	controller := controllers.NewHeatController(activity, heat, repo)

	heatRouter := r.PathPrefix("/api/heat").Subrouter()
	heatRouter.HandleFunc("/counts", controller.HandleCounts).Methods("GET")
	heatRouter.HandleFunc("/map", controller.HandleHeatMap).Methods("POST")
}
