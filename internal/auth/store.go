// Package auth verifies packer credentials against the users table. Its
// surface is deliberately small: verify a credential and return an identity,
// or fail.
package auth

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/crypto/bcrypt"

	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

const emailIndexName = "emailIndex"

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match. Callers get no hint which of the two it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is the authenticated caller, with the credential hash stripped.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
}

// userRecord is the raw users-table shape. Older writers used snake_case for
// the hash; the fallback is resolved here, at the adapter boundary.
type userRecord struct {
	ID                 string `dynamodbav:"id"`
	Email              string `dynamodbav:"email"`
	Username           string `dynamodbav:"username"`
	PasswordHash       string `dynamodbav:"passwordHash"`
	LegacyPasswordHash string `dynamodbav:"password_hash"`
}

func (r *userRecord) credentialHash() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.LegacyPasswordHash
}

// Store encapsulates operations on the users table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new auth Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// Login verifies the password against the stored bcrypt digest and returns
// the caller's identity. Unknown email and wrong password both surface as
// ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, email, password string) (*Identity, error) {
	rec, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	hash := rec.credentialHash()
	if hash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{UserID: rec.ID, Username: rec.Username, Email: rec.Email}, nil
}

// SetPassword stores a fresh bcrypt digest for the user with the given email.
// Used by the password admin tool, not by the login flow.
func (s *Store) SetPassword(ctx context.Context, email, password string) error {
	rec, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return errs.Schemaf("user %s has no id attribute", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: rec.ID},
		},
		UpdateExpression:          awsString("SET #ph = :ph"),
		ExpressionAttributeNames:  map[string]string{"#ph": "passwordHash"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":ph": &types.AttributeValueMemberS{Value: string(hash)}},
	})
	if err != nil {
		return errs.ClassifyStore("set password", err)
	}
	return nil
}

func (s *Store) findByEmail(ctx context.Context, email string) (*userRecord, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:                &s.tableName,
		IndexName:                awsString(emailIndexName),
		KeyConditionExpression:   awsString("#e = :email"),
		ExpressionAttributeNames: map[string]string{"#e": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: awsInt32(1),
	})
	if err != nil {
		return nil, errs.ClassifyStore("find user by email", err)
	}
	if len(out.Items) == 0 {
		return nil, errs.NotFoundf("user %s", email)
	}
	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, errs.Schemaf("unmarshal user: %v", err)
	}
	return &rec, nil
}

func awsString(s string) *string { return &s }
func awsInt32(n int32) *int32    { return &n }
