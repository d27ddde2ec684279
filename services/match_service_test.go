package services

import (
	"context"
	"errors"
	"testing"

	"pulse_server/models"
)

func forceMatch(f *engineFixture)  { f.match.Draw = func() float64 { return 0 } }
func forbidMatch(f *engineFixture) { f.match.Draw = func() float64 { return 1 } }

func TestLikeForcedMutualCreatesMatchAndConversation(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	match, err := f.match.Like(ctx, "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}

	conversation := f.chat.ConversationFor("u1", "u2")
	if conversation == nil {
		t.Fatal("match without conversation")
	}
	if conversation.ConversationID != match.ConversationID {
		t.Errorf("conversation id %s != match's %s", conversation.ConversationID, match.ConversationID)
	}
	if len(conversation.Messages) != 1 || conversation.Messages[0].Type != models.MessageTypeText {
		t.Errorf("expected a greeting message, got %+v", conversation.Messages)
	}
	if !f.match.HasLiked("u1", "u2") {
		t.Error("like edge missing after match")
	}
}

func TestGreetingUsesProfileName(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	f.repo.profiles["u2"] = models.UserProfile{UserID: "u2", Name: "Amy"}

	if _, err := f.match.Like(context.Background(), "u1", "u2"); err != nil {
		t.Fatal(err)
	}

	conversation := f.chat.ConversationFor("u1", "u2")
	if conversation == nil {
		t.Fatal("match without conversation")
	}
	if got := conversation.Messages[0].Text; got != "You have matched with Amy! Say Hi!" {
		t.Errorf("greeting = %q, want the profile name in it", got)
	}
}

func TestLikeProfileFetchDoesNotHoldEngineLock(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)

	// Snapshot takes the shared read lock; this only completes if the
	// profile fetch runs outside the critical section.
	f.repo.fetchProfileHook = func() { f.checkIns.Snapshot() }

	match, err := f.match.Like(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
}

func TestLikeWithoutMutualityRecordsEdgeOnly(t *testing.T) {
	f := newEngineFixture()
	forbidMatch(f)

	match, err := f.match.Like(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if match != nil {
		t.Fatal("unexpected match")
	}
	if !f.match.HasLiked("u1", "u2") {
		t.Error("like edge not recorded")
	}
	if f.chat.ConversationFor("u1", "u2") != nil {
		t.Error("conversation without match")
	}
}

func TestRealReverseEdgeBeatsTheDraw(t *testing.T) {
	f := newEngineFixture()
	forbidMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u2", "u1"); err != nil {
		t.Fatal(err)
	}
	match, err := f.match.Like(ctx, "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if match == nil {
		t.Fatal("mutual likes must create a match regardless of the draw")
	}
}

func TestLikeIdempotent(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	first, err := f.match.Like(ctx, "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.match.Like(ctx, "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if second == nil || second.MatchID != first.MatchID {
		t.Errorf("repeated like returned %+v, want the original match", second)
	}
	if len(f.match.MatchesFor("u1")) != 1 {
		t.Error("repeated like duplicated the match")
	}
}

func TestLikeValidation(t *testing.T) {
	f := newEngineFixture()

	for _, pair := range [][2]string{{"", "u2"}, {"u1", ""}, {"u1", "u1"}} {
		if _, err := f.match.Like(context.Background(), pair[0], pair[1]); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Like(%q, %q) err = %v, want ErrInvalidInput", pair[0], pair[1], err)
		}
	}
}

func TestUndoLastLikeRestoresPreLikeState(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if err := f.match.UndoLastLike(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	if f.match.HasLiked("u1", "u2") {
		t.Error("like edge survived undo")
	}
	if f.match.MatchFor("u1", "u2") != nil {
		t.Error("match survived undo")
	}
	if f.chat.ConversationFor("u1", "u2") != nil {
		t.Error("conversation survived undo")
	}
	if len(f.repo.likes) != 0 || len(f.repo.matches) != 0 {
		t.Error("durable records survived undo")
	}
	if len(f.repo.messages) != 0 {
		t.Error("durable greeting survived undo")
	}
}

func TestUndoWithoutLike(t *testing.T) {
	f := newEngineFixture()

	err := f.match.UndoLastLike(context.Background(), "u1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUndoOnlyCoversMostRecentLike(t *testing.T) {
	f := newEngineFixture()
	forbidMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.match.Like(ctx, "u1", "u3"); err != nil {
		t.Fatal(err)
	}

	if err := f.match.UndoLastLike(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if f.match.HasLiked("u1", "u3") {
		t.Error("most recent like not undone")
	}
	if !f.match.HasLiked("u1", "u2") {
		t.Error("older like removed by undo")
	}

	// The undo stack is one deep.
	if err := f.match.UndoLastLike(ctx, "u1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second undo err = %v, want ErrNotFound", err)
	}
}

func TestBlockRemovesMatchConversationAndEdges(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if err := f.match.Block(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}

	if f.match.MatchFor("u1", "u2") != nil {
		t.Error("match survived block")
	}
	if f.chat.ConversationFor("u1", "u2") != nil {
		t.Error("conversation survived block")
	}
	if f.match.HasLiked("u1", "u2") || f.match.HasLiked("u2", "u1") {
		t.Error("like edges survived block")
	}
	if len(f.repo.messages) != 0 {
		t.Error("durable conversation messages survived block")
	}

	if _, err := f.match.Like(ctx, "u2", "u1"); !errors.Is(err, models.ErrBlocked) {
		t.Errorf("like on blocked pair err = %v, want ErrBlocked", err)
	}

	f.match.Unblock("u1", "u2")
	if _, err := f.match.Like(ctx, "u2", "u1"); err != nil {
		t.Errorf("like after unblock: %v", err)
	}
}

func TestMatchPersistFailureRollsBackLike(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	f.repo.saveMatchErr = errTransport

	_, err := f.match.Like(context.Background(), "u1", "u2")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if f.match.HasLiked("u1", "u2") {
		t.Error("like edge applied despite failed match persist")
	}
	if f.match.MatchFor("u1", "u2") != nil || f.chat.ConversationFor("u1", "u2") != nil {
		t.Error("partial match state visible after failure")
	}
	if len(f.repo.likes) != 0 {
		t.Error("durable like not rolled back")
	}
}

// Every match must have exactly one conversation for the same pair and vice
// versa, across any sequence of likes, undos and blocks.
func TestMatchConversationPairing(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.match.Like(ctx, "u3", "u4"); err != nil {
		t.Fatal(err)
	}
	if err := f.match.UndoLastLike(ctx, "u3"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.match.Like(ctx, "u5", "u6"); err != nil {
		t.Fatal(err)
	}
	if err := f.match.Block(ctx, "u5", "u6"); err != nil {
		t.Fatal(err)
	}

	if len(f.match.matches) != len(f.chat.conversations) {
		t.Fatalf("matches = %d, conversations = %d", len(f.match.matches), len(f.chat.conversations))
	}
	for _, match := range f.match.matches {
		conversation, ok := f.chat.conversations[match.ConversationID]
		if !ok {
			t.Fatalf("match %s has no conversation", match.MatchID)
		}
		if !containsUser(conversation.Participants, match.Users[0]) || !containsUser(conversation.Participants, match.Users[1]) {
			t.Fatalf("participants %v do not match pair %v", conversation.Participants, match.Users)
		}
	}
}

func TestMatchesFor(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.match.Like(ctx, "u1", "u3"); err != nil {
		t.Fatal(err)
	}

	if got := len(f.match.MatchesFor("u1")); got != 2 {
		t.Errorf("matches for u1 = %d, want 2", got)
	}
	if got := len(f.match.MatchesFor("u2")); got != 1 {
		t.Errorf("matches for u2 = %d, want 1", got)
	}
	if got := len(f.match.MatchesFor("stranger")); got != 0 {
		t.Errorf("matches for stranger = %d, want 0", got)
	}
}
