package models

// Message statuses form a forward-only pipeline. StatusFailed is terminal
// and reachable from any non-terminal status.
const (
	StatusSending   = "sending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Message content types
const (
	MessageTypeText      = "text"
	MessageTypeVoiceMemo = "voiceMemo"
	MessageTypeGift      = "gift"
	MessageTypeGif       = "gif"
)

type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"` // Partition Key
	MessageID      string `dynamodbav:"messageId" json:"messageId"`           // Sort Key
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	Text           string `dynamodbav:"text" json:"text"`
	Type           string `dynamodbav:"type" json:"type"`
	Status         string `dynamodbav:"status" json:"status"`
	IsRead         bool   `dynamodbav:"isRead" json:"isRead"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	MediaKey       string `dynamodbav:"mediaKey,omitempty" json:"mediaKey,omitempty"`
}

// StatusRank orders the forward-only message statuses. Failed is not ranked;
// it is handled as a terminal branch.
func StatusRank(status string) (int, bool) {
	switch status {
	case StatusSending:
		return 0, true
	case StatusSent:
		return 1, true
	case StatusDelivered:
		return 2, true
	case StatusRead:
		return 3, true
	}
	return 0, false
}

type Conversation struct {
	ConversationID string    `dynamodbav:"conversationId" json:"conversationId"`
	Participants   []string  `dynamodbav:"participants" json:"participants"` // unordered pair
	MatchedAt      string    `dynamodbav:"matchedAt" json:"matchedAt"`
	Messages       []Message `dynamodbav:"-" json:"messages,omitempty"`
}

// MessagesTable is the DynamoDB table name for messages
const MessagesTable = "Messages"

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"
