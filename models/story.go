package models

import "time"

// DefaultStoryLifetime is how long a story stays visible.
const DefaultStoryLifetime = 24 * time.Hour

// Story is an ephemeral media post, optionally tied to a location.
type Story struct {
	StoryID    string `dynamodbav:"storyId" json:"storyId"`
	UserID     string `dynamodbav:"userId" json:"userId"`
	LocationID string `dynamodbav:"locationId,omitempty" json:"locationId,omitempty"`
	Caption    string `dynamodbav:"caption,omitempty" json:"caption,omitempty"`
	MediaKey   string `dynamodbav:"mediaKey" json:"mediaKey"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt  string `dynamodbav:"expiresAt" json:"expiresAt"`
}

// StoriesTable is the DynamoDB table name for stories
const StoriesTable = "Stories"
