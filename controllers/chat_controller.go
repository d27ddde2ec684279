package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse_server/services"
	"pulse_server/socket"
)

// ChatController handles HTTP requests for conversations and messages
type ChatController struct {
	ChatService *services.ChatService
	Hub         *socket.Hub
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService, hub *socket.Hub) *ChatController {
	return &ChatController{ChatService: chatService, Hub: hub}
}

// HandleGetMessages returns the ordered message thread of a conversation
func (cc *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		http.Error(w, "conversationId is required", http.StatusBadRequest)
		return
	}

	messages, err := cc.ChatService.Messages(conversationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleSendMessage appends a message to a conversation
func (cc *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		SenderID       string `json:"senderId"`
		Text           string `json:"text"`
		Type           string `json:"type"`
		MediaKey       string `json:"mediaKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.SenderID == "" {
		http.Error(w, "conversationId and senderId are required", http.StatusBadRequest)
		return
	}

	message, err := cc.ChatService.SendMessage(context.Background(), request.ConversationID, request.SenderID, request.Text, request.Type, request.MediaKey)
	if err != nil {
		writeError(w, err)
		return
	}
	cc.Hub.BroadcastMessage(*message)
	writeJSON(w, http.StatusCreated, message)
}

// HandleAckStatus applies a transport acknowledgment to a message
func (cc *ChatController) HandleAckStatus(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		MessageID      string `json:"messageId"`
		Status         string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.MessageID == "" || request.Status == "" {
		http.Error(w, "conversationId, messageId, and status are required", http.StatusBadRequest)
		return
	}

	message, err := cc.ChatService.AckStatus(context.Background(), request.ConversationID, request.MessageID, request.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	cc.Hub.BroadcastStatus(*message)
	writeJSON(w, http.StatusOK, message)
}

// HandleMarkRead marks the conversation's inbound messages as read
func (cc *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		ReaderID       string `json:"readerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.ReaderID == "" {
		http.Error(w, "conversationId and readerId are required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.MarkRead(context.Background(), request.ConversationID, request.ReaderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

// HandleGetConversations returns every conversation the user participates in
func (cc *ChatController) HandleGetConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": cc.ChatService.ConversationsFor(userID)})
}
