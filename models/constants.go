package models

// DiscoveryCriteria are the filters applied to the candidate pool. Zero
// values mean "filter disabled" for every field.
type DiscoveryCriteria struct {
	Query         string   `json:"query,omitempty"`
	MinAge        int      `json:"minAge,omitempty"`
	MaxAge        int      `json:"maxAge,omitempty"`
	MaxDistanceKm float64  `json:"maxDistanceKm,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Drinking      []string `json:"drinking,omitempty"`
	Smoking       []string `json:"smoking,omitempty"`
	Kids          []string `json:"kids,omitempty"`
}

// DefaultMatchChance is the probability that a like turns into a match when
// the reverse edge is unknown. It stands in for "the other user already
// liked you" until a real backend supplies inbound likes; override with the
// MATCH_PROBABILITY environment variable.
const DefaultMatchChance = 0.2

// Snapshot slot names for the persistence boundary
const (
	SlotCurrentUser    = "currentUser"
	SlotConversations  = "conversations"
	SlotMatches        = "matches"
	SlotLikedUsers     = "likedUsers"
	SlotBlockedPairs   = "blockedPairs"
	SlotFavorites      = "favorites"
	SlotHeatMap        = "heatMap"
	SlotRecentCheckIns = "recentCheckIns"
	SlotRelationships  = "relationships"
)
