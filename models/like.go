package models

// Like is a directed edge: SenderID liked ReceiverID. A match exists exactly
// when both directions of the edge exist.
type Like struct {
	SenderID   string `dynamodbav:"senderId" json:"senderId"`     // Partition Key
	ReceiverID string `dynamodbav:"receiverId" json:"receiverId"` // Sort Key
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// LikesTable is the DynamoDB table name for like edges
const LikesTable = "Likes"

// ReceiverIndex is the GSI used to query inbound likes
const ReceiverIndex = "receiverId-index"
