package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"pulse_server/models"

	"github.com/google/uuid"
)

// pairKey is an unordered user pair, normalized so {A,B} == {B,A}.
type pairKey struct {
	a, b string
}

func newPairKey(userA, userB string) pairKey {
	if userA > userB {
		userA, userB = userB, userA
	}
	return pairKey{a: userA, b: userB}
}

// likeRecord remembers the most recent like per user so it can be undone,
// including the match it may have triggered.
type likeRecord struct {
	receiverID     string
	matchID        string
	conversationID string
}

// MatchService runs the like -> match -> conversation state machine. Likes
// are a directed edge set across all users; a match is created exactly when
// both directions exist. When the reverse edge is unknown (no backend feed
// of inbound likes), a bounded-probability draw stands in for "the other
// user already liked you".
//
// Matches and conversations are created and removed in the same critical
// section: one is never observable without the other.
type MatchService struct {
	mu    *sync.RWMutex
	clock Clock
	repo  Repository
	chat  *ChatService

	// MatchChance is the probability used by the mutuality draw. Draw is
	// the random source, injectable for deterministic tests.
	MatchChance float64
	Draw        func() float64

	likes    map[string]map[string]string // senderId -> receiverId -> createdAt
	lastLike map[string]*likeRecord
	matches  map[string]*models.Match // matchId -> match
	byPair   map[pairKey]string       // pair -> matchId
	blocked  map[pairKey]bool
}

func NewMatchService(mu *sync.RWMutex, clock Clock, repo Repository, chat *ChatService) *MatchService {
	return &MatchService{
		mu:          mu,
		clock:       clock,
		repo:        repo,
		chat:        chat,
		MatchChance: models.DefaultMatchChance,
		Draw:        rand.Float64,
		likes:       make(map[string]map[string]string),
		lastLike:    make(map[string]*likeRecord),
		matches:     make(map[string]*models.Match),
		byPair:      make(map[pairKey]string),
		blocked:     make(map[pairKey]bool),
	}
}

// Like records a directed like and returns the match if it completed one.
// Liking the same target again is idempotent. Likes between blocked pairs
// are rejected.
func (s *MatchService) Like(ctx context.Context, senderID, receiverID string) (*models.Match, error) {
	if senderID == "" || receiverID == "" || senderID == receiverID {
		return nil, fmt.Errorf("%w: bad like pair", models.ErrInvalidInput)
	}

	// The greeting only needs a display name; fetch it before taking the
	// lock so a slow profile read cannot stall the engine.
	greetingName := receiverID
	if profile, err := s.repo.FetchUserProfile(ctx, receiverID); err == nil && profile.Name != "" {
		greetingName = profile.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pair := newPairKey(senderID, receiverID)
	if s.blocked[pair] {
		return nil, models.ErrBlocked
	}

	if _, already := s.likes[senderID][receiverID]; already {
		if matchID, matched := s.byPair[pair]; matched {
			copied := *s.matches[matchID]
			return &copied, nil
		}
		return nil, nil
	}

	now := s.clock.Now().Format(time.RFC3339)
	like := models.Like{SenderID: senderID, ReceiverID: receiverID, CreatedAt: now}
	if err := s.repo.SaveLike(ctx, like); err != nil {
		return nil, fmt.Errorf("failed to save like: %w", err)
	}

	_, reverseExists := s.likes[receiverID][senderID]
	mutual := reverseExists || s.Draw() < s.MatchChance

	record := &likeRecord{receiverID: receiverID}

	if !mutual {
		s.applyLikeLocked(senderID, receiverID, now, record)
		return nil, nil
	}

	match := &models.Match{
		MatchID:        uuid.NewString(),
		Users:          []string{senderID, receiverID},
		ConversationID: uuid.NewString(),
		CreatedAt:      now,
	}
	conversation := &models.Conversation{
		ConversationID: match.ConversationID,
		Participants:   []string{senderID, receiverID},
		MatchedAt:      now,
	}
	greeting := models.Message{
		ConversationID: conversation.ConversationID,
		MessageID:      uuid.NewString(),
		SenderID:       receiverID,
		Text:           fmt.Sprintf("You have matched with %s! Say Hi!", greetingName),
		Type:           models.MessageTypeText,
		Status:         models.StatusDelivered,
		CreatedAt:      now,
	}
	conversation.Messages = append(conversation.Messages, greeting)

	// Durable writes before the in-memory apply: if the match cannot be
	// persisted, the like is rolled back too and no state changes.
	if err := s.repo.SaveMatch(ctx, *match, *conversation); err != nil {
		if deleteErr := s.repo.DeleteLike(ctx, senderID, receiverID); deleteErr != nil {
			log.Printf("❌ Failed to roll back like %s->%s: %v", senderID, receiverID, deleteErr)
		}
		return nil, fmt.Errorf("failed to save match: %w", err)
	}
	if err := s.repo.SaveMessage(ctx, greeting); err != nil {
		log.Printf("❌ Failed to persist match greeting: %v", err)
	}

	s.applyLikeLocked(senderID, receiverID, now, record)
	s.matches[match.MatchID] = match
	s.byPair[pair] = match.MatchID
	s.chat.createConversationLocked(conversation)

	record.matchID = match.MatchID
	record.conversationID = conversation.ConversationID

	log.Printf("🎉 Match created: %s ❤️ %s", senderID, receiverID)
	copied := *match
	return &copied, nil
}

// applyLikeLocked records the like edge and the undo record. Caller must
// hold the write lock.
func (s *MatchService) applyLikeLocked(senderID, receiverID, createdAt string, record *likeRecord) {
	if s.likes[senderID] == nil {
		s.likes[senderID] = make(map[string]string)
	}
	s.likes[senderID][receiverID] = createdAt
	s.lastLike[senderID] = record
}

// UndoLastLike reverses the user's most recent like. If that like created a
// match, the match and its conversation are removed with it, restoring the
// exact pre-like state. Only the single most recent like is undoable.
func (s *MatchService) UndoLastLike(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.lastLike[userID]
	if !ok {
		return fmt.Errorf("%w: no like to undo for %s", models.ErrNotFound, userID)
	}

	if err := s.repo.DeleteLike(ctx, userID, record.receiverID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if record.matchID != "" {
		if err := s.repo.DeleteMatch(ctx, record.matchID, record.conversationID); err != nil {
			return fmt.Errorf("failed to delete match: %w", err)
		}
	}

	delete(s.likes[userID], record.receiverID)
	if record.matchID != "" {
		s.removeMatchLocked(userID, record.receiverID)
	}
	delete(s.lastLike, userID)
	return nil
}

// Block removes any match, conversation and like edges between the pair and
// prevents future likes until Unblock.
func (s *MatchService) Block(ctx context.Context, userID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := newPairKey(userID, targetID)
	s.blocked[pair] = true

	if matchID, ok := s.byPair[pair]; ok {
		match := s.matches[matchID]
		if err := s.repo.DeleteMatch(ctx, matchID, match.ConversationID); err != nil {
			log.Printf("❌ Failed to delete match %s on block: %v", matchID, err)
		}
		s.removeMatchLocked(userID, targetID)
	}

	for _, edge := range [][2]string{{userID, targetID}, {targetID, userID}} {
		if _, ok := s.likes[edge[0]][edge[1]]; ok {
			if err := s.repo.DeleteLike(ctx, edge[0], edge[1]); err != nil {
				log.Printf("❌ Failed to delete like %s->%s on block: %v", edge[0], edge[1], err)
			}
			delete(s.likes[edge[0]], edge[1])
		}
		if record, ok := s.lastLike[edge[0]]; ok && record.receiverID == edge[1] {
			delete(s.lastLike, edge[0])
		}
	}
	return nil
}

// Unblock lifts a block. It does not restore anything the block removed.
func (s *MatchService) Unblock(userID, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocked, newPairKey(userID, targetID))
}

// IsBlocked reports whether the pair is blocked.
func (s *MatchService) IsBlocked(userID, targetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocked[newPairKey(userID, targetID)]
}

// HasLiked reports whether the directed like edge exists.
func (s *MatchService) HasLiked(senderID, receiverID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likes[senderID][receiverID]
	return ok
}

// MatchesFor returns the user's matches.
func (s *MatchService) MatchesFor(userID string) []models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.Match
	for _, match := range s.matches {
		if containsUser(match.Users, userID) {
			matches = append(matches, *match)
		}
	}
	return matches
}

// MatchFor returns the match between two users, if any.
func (s *MatchService) MatchFor(userA, userB string) *models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matchID, ok := s.byPair[newPairKey(userA, userB)]
	if !ok {
		return nil
	}
	copied := *s.matches[matchID]
	return &copied
}

// removeMatchLocked drops the match and its conversation together. Caller
// must hold the write lock.
func (s *MatchService) removeMatchLocked(userA, userB string) {
	pair := newPairKey(userA, userB)
	matchID, ok := s.byPair[pair]
	if !ok {
		return
	}
	delete(s.matches, matchID)
	delete(s.byPair, pair)
	s.chat.removeConversationLocked(userA, userB)
}
