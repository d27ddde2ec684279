package socket

import (
	"log"

	"pulse_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// Hub wraps the Socket.IO server. Clients join rooms keyed by conversation
// id (for chat events) or user id (for match events); controllers broadcast
// through the typed methods below.
type Hub struct {
	Server *socketio.Server
}

// NewHub initializes the Socket.IO server and its event handlers
func NewHub() *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		room := data["room"]
		if room == "" {
			log.Println("❌ Invalid room in join request")
			return
		}
		log.Printf("👥 Socket %s joined room %s\n", c.ID(), room)
		c.Join(room)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, data map[string]string) {
		if room := data["room"]; room != "" {
			c.Leave(room)
		}
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return &Hub{Server: server}
}

// BroadcastMessage pushes a new message to the conversation room
func (h *Hub) BroadcastMessage(message models.Message) {
	if h == nil {
		return
	}
	h.Server.BroadcastToRoom("/", message.ConversationID, "newMessage", message)
}

// BroadcastStatus pushes a message status change to the conversation room
func (h *Hub) BroadcastStatus(message models.Message) {
	if h == nil {
		return
	}
	h.Server.BroadcastToRoom("/", message.ConversationID, "messageStatus", map[string]string{
		"conversationId": message.ConversationID,
		"messageId":      message.MessageID,
		"status":         message.Status,
	})
}

// BroadcastMatch notifies both participants of a new match
func (h *Hub) BroadcastMatch(match models.Match) {
	if h == nil {
		return
	}
	for _, userID := range match.Users {
		h.Server.BroadcastToRoom("/", userID, "newMatch", match)
	}
}
