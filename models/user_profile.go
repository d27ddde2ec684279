package models

// UserProfile defines the structure for user profiles. Identity (UserID) is
// immutable; the remaining fields are mutable profile data used by discovery
// filtering.
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"`
	Name      string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Job       string   `dynamodbav:"job,omitempty" json:"job,omitempty"`
	Age       int      `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Interests []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`

	// Lifestyle attributes. A nil pointer means the user never answered;
	// discovery treats "never answered" differently from a mismatch.
	Drinking *string `dynamodbav:"drinking,omitempty" json:"drinking,omitempty"`
	Smoking  *string `dynamodbav:"smoking,omitempty" json:"smoking,omitempty"`
	Kids     *string `dynamodbav:"kids,omitempty" json:"kids,omitempty"`

	FavoriteLocations []string `dynamodbav:"favoriteLocations,omitempty" json:"favoriteLocations,omitempty"`
	Photos            []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
