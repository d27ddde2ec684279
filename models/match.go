package models

type Match struct {
	MatchID        string   `dynamodbav:"matchId" json:"matchId"`
	Users          []string `dynamodbav:"users" json:"users"` // unordered pair
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"`
	LocationID     string   `dynamodbav:"locationId,omitempty" json:"locationId,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for user matches
const MatchesTable = "Matches"
