package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pulse_server/models"

	"github.com/google/uuid"
)

// ChatService owns conversations and their message threads. Conversations
// are created and removed only by MatchService inside the shared critical
// section, which is what keeps the match<->conversation pairing atomic.
type ChatService struct {
	mu    *sync.RWMutex
	clock Clock
	repo  Repository

	conversations map[string]*models.Conversation
	byPair        map[pairKey]string // normalized pair -> conversationId
}

func NewChatService(mu *sync.RWMutex, clock Clock, repo Repository) *ChatService {
	return &ChatService{
		mu:            mu,
		clock:         clock,
		repo:          repo,
		conversations: make(map[string]*models.Conversation),
		byPair:        make(map[pairKey]string),
	}
}

// SendMessage appends a message to a conversation in status "sending". The
// durable write happens first; on repository failure nothing changes.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID, text, messageType, mediaKey string) (*models.Message, error) {
	switch messageType {
	case "":
		messageType = models.MessageTypeText
	case models.MessageTypeText, models.MessageTypeVoiceMemo, models.MessageTypeGift, models.MessageTypeGif:
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", models.ErrInvalidInput, messageType)
	}

	s.mu.RLock()
	conversation, ok := s.conversations[conversationID]
	isParticipant := ok && containsUser(conversation.Participants, senderID)
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}
	if !isParticipant {
		return nil, models.ErrNotParticipant
	}

	message := models.Message{
		ConversationID: conversationID,
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		Text:           text,
		Type:           messageType,
		Status:         models.StatusSending,
		CreatedAt:      s.clock.Now().Format(time.RFC3339),
		MediaKey:       mediaKey,
	}

	if err := s.repo.SaveMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conversation, ok = s.conversations[conversationID]
	if !ok {
		// Conversation removed between the check and the append (block or
		// undo won the race). The durable record is orphaned but no
		// in-memory invariant is touched.
		return nil, fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}
	conversation.Messages = append(conversation.Messages, message)
	return &message, nil
}

// AckStatus applies a transport acknowledgment to a message. Transitions are
// strictly forward: sending < sent < delivered < read. An ack that would move
// the status backward is rejected with ErrStateConflict; re-acking the
// current status is a no-op. "failed" is terminal and reachable from any
// non-terminal status.
func (s *ChatService) AckStatus(ctx context.Context, conversationID, messageID, status string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := s.findMessageLocked(conversationID, messageID)
	if message == nil {
		return nil, fmt.Errorf("%w: message %s", models.ErrNotFound, messageID)
	}
	if message.Status == status {
		copied := *message
		return &copied, nil
	}
	if message.Status == models.StatusFailed {
		return nil, fmt.Errorf("%w: message already failed", models.ErrStateConflict)
	}

	if status == models.StatusFailed {
		if message.Status == models.StatusRead {
			return nil, fmt.Errorf("%w: cannot fail a read message", models.ErrStateConflict)
		}
	} else {
		newRank, ok := models.StatusRank(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrStateConflict, status)
		}
		currentRank, _ := models.StatusRank(message.Status)
		if newRank < currentRank {
			return nil, fmt.Errorf("%w: cannot move %s back to %s", models.ErrStateConflict, message.Status, status)
		}
	}

	isRead := status == models.StatusRead || message.IsRead
	if err := s.repo.UpdateMessageStatus(ctx, conversationID, messageID, status, isRead); err != nil {
		return nil, fmt.Errorf("failed to update message status: %w", err)
	}

	message.Status = status
	message.IsRead = isRead
	copied := *message
	return &copied, nil
}

// MarkRead marks every message in the conversation not sent by readerID as
// read. Idempotent: already-read messages are skipped. All durable updates
// run before any in-memory change, so a repository failure leaves the
// thread exactly as it was.
func (s *ChatService) MarkRead(ctx context.Context, conversationID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}

	var pending []int
	for i := range conversation.Messages {
		message := &conversation.Messages[i]
		if message.SenderID == readerID || message.Status == models.StatusRead || message.Status == models.StatusFailed {
			continue
		}
		pending = append(pending, i)
	}

	for _, i := range pending {
		messageID := conversation.Messages[i].MessageID
		if err := s.repo.UpdateMessageStatus(ctx, conversationID, messageID, models.StatusRead, true); err != nil {
			return fmt.Errorf("failed to mark message %s read: %w", messageID, err)
		}
	}
	for _, i := range pending {
		conversation.Messages[i].Status = models.StatusRead
		conversation.Messages[i].IsRead = true
	}
	return nil
}

// Messages returns a copy of the conversation's ordered message list.
func (s *ChatService) Messages(conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversation, ok := s.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", models.ErrNotFound, conversationID)
	}
	messages := make([]models.Message, len(conversation.Messages))
	copy(messages, conversation.Messages)
	return messages, nil
}

// ConversationFor returns the conversation between two users, if any.
func (s *ChatService) ConversationFor(userA, userB string) *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversationID, ok := s.byPair[newPairKey(userA, userB)]
	if !ok {
		return nil
	}
	return s.copyConversationLocked(conversationID)
}

// ConversationsFor returns every conversation the user participates in.
func (s *ChatService) ConversationsFor(userID string) []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conversations []models.Conversation
	for id, conversation := range s.conversations {
		if containsUser(conversation.Participants, userID) {
			conversations = append(conversations, *s.copyConversationLocked(id))
		}
	}
	return conversations
}

// createConversationLocked registers a conversation. Caller must hold the
// shared write lock (MatchService, during match creation).
func (s *ChatService) createConversationLocked(conversation *models.Conversation) {
	s.conversations[conversation.ConversationID] = conversation
	s.byPair[newPairKey(conversation.Participants[0], conversation.Participants[1])] = conversation.ConversationID
}

// removeConversationLocked removes the conversation between a pair. Caller
// must hold the shared write lock (MatchService, during undo/block).
func (s *ChatService) removeConversationLocked(userA, userB string) string {
	key := newPairKey(userA, userB)
	conversationID, ok := s.byPair[key]
	if !ok {
		return ""
	}
	delete(s.conversations, conversationID)
	delete(s.byPair, key)
	return conversationID
}

func (s *ChatService) findMessageLocked(conversationID, messageID string) *models.Message {
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return nil
	}
	for i := range conversation.Messages {
		if conversation.Messages[i].MessageID == messageID {
			return &conversation.Messages[i]
		}
	}
	return nil
}

func (s *ChatService) copyConversationLocked(conversationID string) *models.Conversation {
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return nil
	}
	copied := *conversation
	copied.Messages = make([]models.Message, len(conversation.Messages))
	copy(copied.Messages, conversation.Messages)
	copied.Participants = append([]string(nil), conversation.Participants...)
	return &copied
}

func containsUser(users []string, userID string) bool {
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}
