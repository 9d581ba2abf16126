// Package packers is the point lookup/update adapter for packer identity
// records.
package packers

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

// Store encapsulates operations on the packers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new packers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// Get fetches a packer by id. Returns errs.ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, packerID string) (*Packer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"packer_id": &types.AttributeValueMemberS{Value: packerID},
		},
	})
	if err != nil {
		return nil, errs.ClassifyStore("get packer", err)
	}
	if len(out.Item) == 0 {
		return nil, errs.NotFoundf("packer %s", packerID)
	}
	var p Packer
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, errs.Schemaf("unmarshal packer: %v", err)
	}
	return &p, nil
}

// Update sets username and/or email on an existing packer. Empty arguments
// leave the corresponding field untouched.
func (s *Store) Update(ctx context.Context, packerID, username, email string) (*Packer, error) {
	var parts []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if username != "" {
		parts = append(parts, "#un = :un")
		names["#un"] = "username"
		values[":un"] = &types.AttributeValueMemberS{Value: username}
	}
	if email != "" {
		parts = append(parts, "#em = :em")
		names["#em"] = "email"
		values[":em"] = &types.AttributeValueMemberS{Value: email}
	}
	if len(parts) == 0 {
		return nil, errs.Validationf("nothing to update")
	}

	expr := "SET " + strings.Join(parts, ", ")
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"packer_id": &types.AttributeValueMemberS{Value: packerID},
		},
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(packer_id)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return nil, errs.NotFoundf("packer %s", packerID)
		}
		return nil, errs.ClassifyStore("update packer", err)
	}
	var p Packer
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, errs.Schemaf("unmarshal packer: %v", err)
	}
	return &p, nil
}

func awsString(s string) *string { return &s }
