package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"pulse_server/models"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var errTransport = errors.New("transport failure")

// stubRepo is an in-memory Repository. Individual operations can be made to
// fail by setting the matching error field.
type stubRepo struct {
	checkIns map[string]models.CheckIn
	likes    map[[2]string]models.Like
	matches  map[string]models.Match
	messages map[string]models.Message
	profiles map[string]models.UserProfile
	stories  []models.Story

	statusAttempts int
	statusUpdates  int

	// fetchProfileHook runs at the top of every FetchUserProfile call.
	fetchProfileHook func()

	// failStatusUpdateAt makes updateStatusErr fire only on the Nth
	// attempt (1-based); zero fails every attempt.
	failStatusUpdateAt int

	createCheckInErr error
	deleteCheckInErr error
	saveLikeErr      error
	deleteLikeErr    error
	saveMatchErr     error
	deleteMatchErr   error
	saveMessageErr   error
	updateStatusErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		checkIns: make(map[string]models.CheckIn),
		likes:    make(map[[2]string]models.Like),
		matches:  make(map[string]models.Match),
		messages: make(map[string]models.Message),
		profiles: make(map[string]models.UserProfile),
	}
}

func (r *stubRepo) FetchUsers(ctx context.Context) ([]models.UserProfile, error) { return nil, nil }
func (r *stubRepo) FetchUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if r.fetchProfileHook != nil {
		r.fetchProfileHook()
	}
	if profile, ok := r.profiles[userID]; ok {
		return &profile, nil
	}
	return nil, errTransport
}
func (r *stubRepo) FetchLikes(ctx context.Context, senderID string) ([]models.Like, error) {
	var likes []models.Like
	for key, like := range r.likes {
		if key[0] == senderID {
			likes = append(likes, like)
		}
	}
	return likes, nil
}
func (r *stubRepo) FetchInboundLikes(ctx context.Context, receiverID string) ([]models.Like, error) {
	var likes []models.Like
	for key, like := range r.likes {
		if key[1] == receiverID {
			likes = append(likes, like)
		}
	}
	return likes, nil
}
func (r *stubRepo) FetchLocations(ctx context.Context) ([]models.Location, error) {
	return nil, nil
}
func (r *stubRepo) FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return nil, nil
}
func (r *stubRepo) FetchMatches(ctx context.Context, userID string) ([]models.Match, error) {
	return nil, nil
}

func (r *stubRepo) CreateCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	if r.createCheckInErr != nil {
		return r.createCheckInErr
	}
	r.checkIns[checkIn.CheckInID] = checkIn
	return nil
}

func (r *stubRepo) DeleteCheckIn(ctx context.Context, checkInID string) error {
	if r.deleteCheckInErr != nil {
		return r.deleteCheckInErr
	}
	delete(r.checkIns, checkInID)
	return nil
}

func (r *stubRepo) SaveLike(ctx context.Context, like models.Like) error {
	if r.saveLikeErr != nil {
		return r.saveLikeErr
	}
	r.likes[[2]string{like.SenderID, like.ReceiverID}] = like
	return nil
}

func (r *stubRepo) DeleteLike(ctx context.Context, senderID, receiverID string) error {
	if r.deleteLikeErr != nil {
		return r.deleteLikeErr
	}
	delete(r.likes, [2]string{senderID, receiverID})
	return nil
}

func (r *stubRepo) SaveMatch(ctx context.Context, match models.Match, conversation models.Conversation) error {
	if r.saveMatchErr != nil {
		return r.saveMatchErr
	}
	r.matches[match.MatchID] = match
	return nil
}

func (r *stubRepo) DeleteMatch(ctx context.Context, matchID, conversationID string) error {
	if r.deleteMatchErr != nil {
		return r.deleteMatchErr
	}
	delete(r.matches, matchID)
	for id, message := range r.messages {
		if message.ConversationID == conversationID {
			delete(r.messages, id)
		}
	}
	return nil
}

func (r *stubRepo) SaveMessage(ctx context.Context, message models.Message) error {
	if r.saveMessageErr != nil {
		return r.saveMessageErr
	}
	r.messages[message.MessageID] = message
	return nil
}

func (r *stubRepo) UpdateMessageStatus(ctx context.Context, conversationID, messageID, status string, isRead bool) error {
	r.statusAttempts++
	if r.updateStatusErr != nil && (r.failStatusUpdateAt == 0 || r.statusAttempts == r.failStatusUpdateAt) {
		return r.updateStatusErr
	}
	r.statusUpdates++
	if message, ok := r.messages[messageID]; ok {
		message.Status = status
		message.IsRead = isRead
		r.messages[messageID] = message
	}
	return nil
}

func (r *stubRepo) CreateStory(ctx context.Context, story models.Story) error {
	r.stories = append(r.stories, story)
	return nil
}

// engineFixture wires the serialized-access domain the way main does.
type engineFixture struct {
	clock    *fakeClock
	repo     *stubRepo
	checkIns *CheckInService
	activity *ActivityService
	chat     *ChatService
	match    *MatchService
}

func newEngineFixture() *engineFixture {
	var mu sync.RWMutex
	clock := newFakeClock()
	repo := newStubRepo()
	checkIns := NewCheckInService(&mu, clock, repo)
	chat := NewChatService(&mu, clock, repo)
	match := NewMatchService(&mu, clock, repo, chat)
	match.Draw = func() float64 { return 1 } // draw never fires; tests override it to force a match
	return &engineFixture{
		clock:    clock,
		repo:     repo,
		checkIns: checkIns,
		activity: &ActivityService{CheckIns: checkIns},
		chat:     chat,
		match:    match,
	}
}

func testLocation(id string, lat, lon float64) models.Location {
	return models.Location{
		LocationID: id,
		Name:       id,
		Coordinate: models.Coordinate{Latitude: lat, Longitude: lon},
	}
}
