package services

import (
	"context"
	"errors"
	"testing"

	"pulse_server/models"
)

// newConversationFixture creates a matched pair so chat operations have a
// conversation to work with.
func newConversationFixture(t *testing.T) (*engineFixture, string) {
	t.Helper()
	f := newEngineFixture()
	forceMatch(f)
	match, err := f.match.Like(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	return f, match.ConversationID
}

func TestSendMessageAppendsInOrder(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	for _, text := range []string{"hey", "how's it going", "coffee later?"} {
		if _, err := f.chat.SendMessage(ctx, conversationID, "u1", text, "", ""); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	messages, err := f.chat.Messages(conversationID)
	if err != nil {
		t.Fatal(err)
	}
	// Greeting plus the three sent above, in send order.
	if len(messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(messages))
	}
	if messages[1].Text != "hey" || messages[3].Text != "coffee later?" {
		t.Error("messages out of order")
	}
	if messages[1].Status != models.StatusSending {
		t.Errorf("new message status = %s, want sending", messages[1].Status)
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	f := newEngineFixture()

	_, err := f.chat.SendMessage(context.Background(), "missing", "u1", "hi", "", "")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSendMessageNonParticipant(t *testing.T) {
	f, conversationID := newConversationFixture(t)

	_, err := f.chat.SendMessage(context.Background(), conversationID, "intruder", "hi", "", "")
	if !errors.Is(err, models.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestSendMessageRepoFailure(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	f.repo.saveMessageErr = errTransport

	_, err := f.chat.SendMessage(context.Background(), conversationID, "u1", "hi", "", "")
	if err == nil {
		t.Fatal("expected transport error")
	}
	messages, _ := f.chat.Messages(conversationID)
	if len(messages) != 1 { // only the greeting
		t.Errorf("message appended despite repo failure: %d", len(messages))
	}
}

func TestSendMessageRejectsUnknownType(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	if _, err := f.chat.SendMessage(ctx, conversationID, "u1", "??", "banana", ""); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("unknown type err = %v, want ErrInvalidInput", err)
	}

	message, err := f.chat.SendMessage(ctx, conversationID, "u1", "", models.MessageTypeGif, "media/cat.gif")
	if err != nil {
		t.Fatalf("send gif: %v", err)
	}
	if message.Type != models.MessageTypeGif {
		t.Errorf("type = %s, want gif", message.Type)
	}

	message, err = f.chat.SendMessage(ctx, conversationID, "u1", "hi", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if message.Type != models.MessageTypeText {
		t.Errorf("empty type defaulted to %s, want text", message.Type)
	}
}

func TestMarkReadRepoFailureLeavesThreadUnchanged(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	for _, text := range []string{"hey", "you around?"} {
		if _, err := f.chat.SendMessage(ctx, conversationID, "u2", text, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	// Greeting plus two sends make three inbound messages; the second
	// durable update fails.
	f.repo.updateStatusErr = errTransport
	f.repo.failStatusUpdateAt = 2
	if err := f.chat.MarkRead(ctx, conversationID, "u1"); err == nil {
		t.Fatal("expected transport error")
	}

	messages, err := f.chat.Messages(conversationID)
	if err != nil {
		t.Fatal(err)
	}
	for _, message := range messages {
		if message.Status == models.StatusRead || message.IsRead {
			t.Errorf("message %q read despite failed MarkRead", message.Text)
		}
	}

	f.repo.updateStatusErr = nil
	if err := f.chat.MarkRead(ctx, conversationID, "u1"); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	messages, _ = f.chat.Messages(conversationID)
	for _, message := range messages {
		if message.SenderID != "u1" && message.Status != models.StatusRead {
			t.Errorf("inbound message %q not read after retry", message.Text)
		}
	}
}

func TestStatusTransitionsForwardOnly(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	message, err := f.chat.SendMessage(ctx, conversationID, "u1", "hi", "", "")
	if err != nil {
		t.Fatal(err)
	}

	for _, status := range []string{models.StatusSent, models.StatusDelivered, models.StatusRead} {
		updated, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, status)
		if err != nil {
			t.Fatalf("ack %s: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %s, want %s", updated.Status, status)
		}
	}

	// Regression attempts are rejected.
	for _, status := range []string{models.StatusSending, models.StatusSent, models.StatusDelivered} {
		if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, status); !errors.Is(err, models.ErrStateConflict) {
			t.Errorf("backward ack to %s err = %v, want ErrStateConflict", status, err)
		}
	}

	// Re-acking the current status is a no-op.
	if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, models.StatusRead); err != nil {
		t.Errorf("idempotent ack: %v", err)
	}
}

func TestStatusFailedTerminal(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	message, err := f.chat.SendMessage(ctx, conversationID, "u1", "hi", "", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, models.StatusFailed); err != nil {
		t.Fatalf("fail from sending: %v", err)
	}
	for _, status := range []string{models.StatusSent, models.StatusDelivered, models.StatusRead} {
		if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, status); !errors.Is(err, models.ErrStateConflict) {
			t.Errorf("ack %s after failed err = %v, want ErrStateConflict", status, err)
		}
	}
}

func TestFailedUnreachableFromRead(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	message, err := f.chat.SendMessage(ctx, conversationID, "u1", "hi", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, models.StatusRead); err != nil {
		t.Fatal(err)
	}
	if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, models.StatusFailed); !errors.Is(err, models.ErrStateConflict) {
		t.Fatalf("fail from read err = %v, want ErrStateConflict", err)
	}
}

func TestAckUnknownStatus(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	message, err := f.chat.SendMessage(ctx, conversationID, "u1", "hi", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.chat.AckStatus(ctx, conversationID, message.MessageID, "teleported"); !errors.Is(err, models.ErrStateConflict) {
		t.Fatalf("unknown status err = %v, want ErrStateConflict", err)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	f, conversationID := newConversationFixture(t)
	ctx := context.Background()

	if _, err := f.chat.SendMessage(ctx, conversationID, "u2", "hi u1", "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.chat.SendMessage(ctx, conversationID, "u1", "hi back", "", ""); err != nil {
		t.Fatal(err)
	}

	if err := f.chat.MarkRead(ctx, conversationID, "u1"); err != nil {
		t.Fatal(err)
	}
	updates := f.repo.statusUpdates

	messages, _ := f.chat.Messages(conversationID)
	for _, message := range messages {
		if message.SenderID != "u1" && message.Status != models.StatusRead {
			t.Errorf("inbound message %q not read", message.Text)
		}
		if message.SenderID == "u1" && message.Status == models.StatusRead {
			t.Errorf("own message %q marked read", message.Text)
		}
	}

	// Second call touches nothing.
	if err := f.chat.MarkRead(ctx, conversationID, "u1"); err != nil {
		t.Fatal(err)
	}
	if f.repo.statusUpdates != updates {
		t.Error("repeated MarkRead issued redundant updates")
	}
}

func TestConversationsFor(t *testing.T) {
	f := newEngineFixture()
	forceMatch(f)
	ctx := context.Background()

	if _, err := f.match.Like(ctx, "u1", "u2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.match.Like(ctx, "u1", "u3"); err != nil {
		t.Fatal(err)
	}

	if got := len(f.chat.ConversationsFor("u1")); got != 2 {
		t.Errorf("conversations for u1 = %d, want 2", got)
	}
	if got := len(f.chat.ConversationsFor("u3")); got != 1 {
		t.Errorf("conversations for u3 = %d, want 1", got)
	}
}
