// Package notifications stores per-user notification records. The worker
// writes one whenever an order is packed; the API lists them.
package notifications

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

const userIndexName = "user_id-index"

// Notification is an item in the notifications table.
type Notification struct {
	ID        string    `dynamodbav:"id" json:"id"` // PK
	UserID    string    `dynamodbav:"user_id" json:"userId"`
	Message   string    `dynamodbav:"message" json:"message"`
	OrderID   string    `dynamodbav:"order_id,omitempty" json:"orderId,omitempty"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
}

// Store encapsulates operations on the notifications table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new notifications Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a notification. CreatedAt is stamped if the caller left it
// zero.
func (s *Store) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return errs.Validationf("notification id is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.nowFunc().UTC()
	}
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return errs.Schemaf("marshal notification: %v", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return errs.ClassifyStore("put notification", err)
	}
	return nil
}

// ListByUser returns up to limit notifications for one user, newest first.
// An empty userID falls back to a bounded scan of the whole table.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int32) ([]Notification, error) {
	var items []map[string]types.AttributeValue
	if userID == "" {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName: &s.tableName,
			Limit:     &limit,
		})
		if err != nil {
			return nil, errs.ClassifyStore("scan notifications", err)
		}
		items = out.Items
	} else {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:                &s.tableName,
			IndexName:                awsString(userIndexName),
			KeyConditionExpression:   awsString("#u = :uid"),
			ExpressionAttributeNames: map[string]string{"#u": "user_id"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ScanIndexForward: awsBool(false),
			Limit:            &limit,
		})
		if err != nil {
			return nil, errs.ClassifyStore("query notifications", err)
		}
		items = out.Items
	}

	list := make([]Notification, 0, len(items))
	for _, item := range items {
		var n Notification
		if err := attributevalue.UnmarshalMap(item, &n); err != nil {
			return nil, errs.Schemaf("unmarshal notification: %v", err)
		}
		list = append(list, n)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
