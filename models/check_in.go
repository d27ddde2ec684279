package models

import "time"

// DefaultCheckInLifetime is how long a check-in stays active unless the
// caller overrides it.
const DefaultCheckInLifetime = 3 * time.Hour

// CheckIn is a time-bounded claim that a user is present at a location.
// A user has at most one active check-in at any instant; checking in again
// supersedes the previous one.
type CheckIn struct {
	CheckInID  string `dynamodbav:"checkInId" json:"checkInId"`
	UserID     string `dynamodbav:"userId" json:"userId"`
	LocationID string `dynamodbav:"locationId" json:"locationId"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt  string `dynamodbav:"expiresAt" json:"expiresAt"`
	Caption    string `dynamodbav:"caption,omitempty" json:"caption,omitempty"`
	MediaKey   string `dynamodbav:"mediaKey,omitempty" json:"mediaKey,omitempty"`

	// Coordinate is copied from the location at check-in time so discovery
	// can compute distances without a location lookup.
	Coordinate Coordinate `dynamodbav:"coordinate" json:"coordinate"`
}

// Expiry parses ExpiresAt. A malformed timestamp counts as already expired.
func (c *CheckIn) Expiry() time.Time {
	t, err := time.Parse(time.RFC3339, c.ExpiresAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CheckInsTable is the DynamoDB table name for check-ins
const CheckInsTable = "CheckIns"
