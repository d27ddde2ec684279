package services

import (
	"context"
	"fmt"
	"time"

	"pulse_server/models"
	"pulse_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Repository is the durable-storage boundary consumed by the engine. All
// operations are synchronous wrappers over a remote store and may fail with
// a transport error; the engine treats any failure as "state unchanged" and
// never retries.
type Repository interface {
	FetchUsers(ctx context.Context) ([]models.UserProfile, error)
	FetchUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	FetchLocations(ctx context.Context) ([]models.Location, error)
	FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	FetchMatches(ctx context.Context, userID string) ([]models.Match, error)

	CreateCheckIn(ctx context.Context, checkIn models.CheckIn) error
	DeleteCheckIn(ctx context.Context, checkInID string) error

	SaveLike(ctx context.Context, like models.Like) error
	DeleteLike(ctx context.Context, senderID, receiverID string) error
	FetchLikes(ctx context.Context, senderID string) ([]models.Like, error)
	FetchInboundLikes(ctx context.Context, receiverID string) ([]models.Like, error)

	SaveMatch(ctx context.Context, match models.Match, conversation models.Conversation) error
	DeleteMatch(ctx context.Context, matchID, conversationID string) error

	SaveMessage(ctx context.Context, message models.Message) error
	UpdateMessageStatus(ctx context.Context, conversationID, messageID, status string, isRead bool) error

	CreateStory(ctx context.Context, story models.Story) error
}

// DynamoRepository implements Repository on DynamoDB.
type DynamoRepository struct {
	Dynamo *DynamoService
}

func (r *DynamoRepository) FetchUsers(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := r.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (r *DynamoRepository) FetchUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := r.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}
	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (r *DynamoRepository) FetchLikes(ctx context.Context, senderID string) ([]models.Like, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.LikesTable, "senderId = :sender",
		map[string]types.AttributeValue{
			":sender": &types.AttributeValueMemberS{Value: senderID},
		}, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likes: %w", err)
	}
	var likes []models.Like
	if err := attributevalue.UnmarshalListOfMaps(items, &likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal likes: %w", err)
	}
	return likes, nil
}

func (r *DynamoRepository) FetchInboundLikes(ctx context.Context, receiverID string) ([]models.Like, error) {
	items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.LikesTable, models.ReceiverIndex, "receiverId = :receiver",
		map[string]types.AttributeValue{
			":receiver": &types.AttributeValueMemberS{Value: receiverID},
		}, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inbound likes: %w", err)
	}
	var likes []models.Like
	if err := attributevalue.UnmarshalListOfMaps(items, &likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inbound likes: %w", err)
	}
	return likes, nil
}

func (r *DynamoRepository) FetchLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.Dynamo.ScanWithFilter(ctx, models.LocationsTable, nil, nil, &locations); err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	return locations, nil
}

func (r *DynamoRepository) FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ContainsString(utils.ExtractStringList(item, "participants"), userID)
	}, nil, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	return conversations, nil
}

func (r *DynamoRepository) FetchMatches(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ContainsString(utils.ExtractStringList(item, "users"), userID)
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	return matches, nil
}

func (r *DynamoRepository) CreateCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	return r.Dynamo.PutItem(ctx, models.CheckInsTable, checkIn)
}

func (r *DynamoRepository) DeleteCheckIn(ctx context.Context, checkInID string) error {
	return r.Dynamo.DeleteItem(ctx, models.CheckInsTable, map[string]types.AttributeValue{
		"checkInId": &types.AttributeValueMemberS{Value: checkInID},
	})
}

func (r *DynamoRepository) SaveLike(ctx context.Context, like models.Like) error {
	return r.Dynamo.PutItem(ctx, models.LikesTable, like)
}

func (r *DynamoRepository) DeleteLike(ctx context.Context, senderID, receiverID string) error {
	return r.Dynamo.DeleteItem(ctx, models.LikesTable, map[string]types.AttributeValue{
		"senderId":   &types.AttributeValueMemberS{Value: senderID},
		"receiverId": &types.AttributeValueMemberS{Value: receiverID},
	})
}

// SaveMatch persists the match and its conversation together. The in-memory
// engine is the source of truth for the pairing invariant; this write makes
// both halves durable in one batch.
func (r *DynamoRepository) SaveMatch(ctx context.Context, match models.Match, conversation models.Conversation) error {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}
	convItem, err := attributevalue.MarshalMap(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := r.Dynamo.BatchWriteItems(ctx, models.MatchesTable, []types.WriteRequest{
		{PutRequest: &types.PutRequest{Item: matchItem}},
	}); err != nil {
		return err
	}
	return r.Dynamo.BatchWriteItems(ctx, models.ConversationsTable, []types.WriteRequest{
		{PutRequest: &types.PutRequest{Item: convItem}},
	})
}

func (r *DynamoRepository) DeleteMatch(ctx context.Context, matchID, conversationID string) error {
	if err := r.Dynamo.DeleteItem(ctx, models.MatchesTable, map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}); err != nil {
		return err
	}
	if err := r.Dynamo.DeleteItem(ctx, models.ConversationsTable, map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}); err != nil {
		return err
	}

	// The conversation's message rows (the greeting included) go with it.
	items, err := r.Dynamo.QueryItems(ctx, models.MessagesTable, "conversationId = :conversation",
		map[string]types.AttributeValue{
			":conversation": &types.AttributeValueMemberS{Value: conversationID},
		}, nil, 100)
	if err != nil {
		return fmt.Errorf("failed to fetch conversation messages: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
				"conversationId": &types.AttributeValueMemberS{Value: conversationID},
				"messageId":      &types.AttributeValueMemberS{Value: utils.ExtractString(item, "messageId")},
			}},
		})
	}
	return r.Dynamo.BatchWriteItems(ctx, models.MessagesTable, requests)
}

func (r *DynamoRepository) SaveMessage(ctx context.Context, message models.Message) error {
	return r.Dynamo.PutItem(ctx, models.MessagesTable, message)
}

func (r *DynamoRepository) UpdateMessageStatus(ctx context.Context, conversationID, messageID, status string, isRead bool) error {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: messageID},
	}
	updateExpression := "SET #status = :status, isRead = :isRead"
	_, err := r.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key,
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":isRead": &types.AttributeValueMemberBOOL{Value: isRead},
		},
		map[string]string{"#status": "status"},
	)
	return err
}

func (r *DynamoRepository) CreateStory(ctx context.Context, story models.Story) error {
	if story.StoryID == "" {
		story.StoryID = uuid.NewString()
	}
	if story.ExpiresAt == "" {
		expires, err := time.Parse(time.RFC3339, story.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid story createdAt: %w", err)
		}
		story.ExpiresAt = expires.Add(models.DefaultStoryLifetime).Format(time.RFC3339)
	}
	return r.Dynamo.PutItem(ctx, models.StoriesTable, story)
}
