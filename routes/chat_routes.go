package routes

import (
	"pulse_server/controllers"
	"pulse_server/services"
	"pulse_server/socket"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, hub *socket.Hub) {
	controller := controllers.NewChatController(chatService, hub)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/markRead", controller.HandleMarkRead).Methods("POST")
	chatRouter.HandleFunc("/status", controller.HandleAckStatus).Methods("POST")
	chatRouter.HandleFunc("/conversations", controller.HandleGetConversations).Methods("GET")
}
