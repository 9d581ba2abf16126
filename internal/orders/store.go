package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

// statusIndexName is the GSI partitioned by status with createdAt as range
// key. All status scans run against it, always newest first; the ordering is
// part of the adapter contract, not configurable.
const statusIndexName = "statusCreatedAtIndex"

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches an order by id. Returns errs.ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, errs.ClassifyStore("get order", err)
	}
	if len(out.Item) == 0 {
		return nil, errs.NotFoundf("order %s", orderID)
	}
	return unmarshalOrder(out.Item)
}

// QueryByStatus returns one page of orders in the given status, newest
// createdAt first. A nil token starts from the beginning; the returned token
// is nil once the partition is exhausted.
func (s *Store) QueryByStatus(ctx context.Context, status string, limit int32, token PageToken) ([]Order, PageToken, error) {
	input := &dyn.QueryInput{
		TableName:                &s.tableName,
		IndexName:                awsString(statusIndexName),
		KeyConditionExpression:   awsString("#s = :status"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		ScanIndexForward: awsBool(false),
		Limit:            &limit,
	}
	if len(token) > 0 {
		input.ExclusiveStartKey = token
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, nil, errs.ClassifyStore("query orders by status", err)
	}

	page := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		o, err := unmarshalOrder(item)
		if err != nil {
			return nil, nil, err
		}
		page = append(page, *o)
	}

	var next PageToken
	if len(out.LastEvaluatedKey) > 0 {
		next = PageToken(out.LastEvaluatedKey)
	}
	return page, next, nil
}

// CountByStatus returns the number of orders in the given status. The count
// is read through the GSI and may lag writes; it is for display, not for
// correctness decisions.
func (s *Store) CountByStatus(ctx context.Context, status string) (int, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:                &s.tableName,
		IndexName:                awsString(statusIndexName),
		KeyConditionExpression:   awsString("#s = :status"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return 0, errs.ClassifyStore("count orders by status", err)
	}
	return int(out.Count), nil
}

// UpdateFields applies a partial update to an order: only the named fields
// change, everything else is untouched. The write is a single UpdateItem
// request guarded by attribute_exists(id), so updating a missing order fails
// with errs.ErrNotFound instead of inserting a phantom record. updatedAt is
// stamped on every call unless the caller set it explicitly.
func (s *Store) UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) (*Order, error) {
	if len(fields) == 0 {
		return nil, errs.Validationf("no fields to update")
	}
	if _, ok := fields["updatedAt"]; !ok {
		fields["updatedAt"] = s.nowFunc().UTC()
	}

	// deterministic expression order
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	expr := "SET "
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	for i, k := range keys {
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		nameAlias := fmt.Sprintf("#f%d", i)
		valueAlias := fmt.Sprintf(":v%d", i)
		if i > 0 {
			expr += ", "
		}
		expr += nameAlias + " = " + valueAlias
		names[nameAlias] = k
		values[valueAlias] = av
	}

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(id)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return nil, errs.NotFoundf("order %s", orderID)
		}
		return nil, errs.ClassifyStore("update order", err)
	}
	return unmarshalOrder(out.Attributes)
}

// UpdateItems persists the full item list together with its packing summary
// in one write.
func (s *Store) UpdateItems(ctx context.Context, orderID string, items []OrderItem, summary PackingSummary) (*Order, error) {
	return s.UpdateFields(ctx, orderID, map[string]interface{}{
		"items":           items,
		"packing_summary": summary,
	})
}

// Complete marks an order packed. Status, packer reference, completion time
// and both media URLs land in a single atomic update; they are never
// partially set.
func (s *Store) Complete(ctx context.Context, orderID, packedBy, photoURL, videoURL string) (*Order, error) {
	return s.UpdateFields(ctx, orderID, map[string]interface{}{
		"status":          StatusPacked,
		"packed_by":       packedBy,
		"packed_at":       s.nowFunc().UTC().Format(time.RFC3339),
		"media_photo_url": photoURL,
		"media_video_url": videoURL,
	})
}

func unmarshalOrder(item map[string]types.AttributeValue) (*Order, error) {
	var rec orderRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, errs.Schemaf("unmarshal order: %v", err)
	}
	return rec.toOrder()
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
