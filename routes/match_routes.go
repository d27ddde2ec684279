package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"
	"pulse_server/socket"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, repo services.Repository, hub *socket.Hub) {
	controller := controllers.NewMatchController(matchService, repo, hub)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	matchRouter.HandleFunc("/undo", controller.HandleUndo).Methods("POST")
	matchRouter.HandleFunc("/block", controller.HandleBlock).Methods("POST")
	matchRouter.HandleFunc("/unblock", controller.HandleUnblock).Methods("POST")
	matchRouter.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/likes", controller.HandleGetLikes).Methods("GET")
}
