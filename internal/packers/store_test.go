package packers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

// simpleMock is a minimal in-memory packers table keyed by packer_id.
type simpleMock struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newSimpleMock() *simpleMock {
	return &simpleMock{items: map[string]map[string]types.AttributeValue{}}
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Key["packer_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.items[id]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Item["packer_id"].(*types.AttributeValueMemberS).Value
	m.items[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Key["packer_id"].(*types.AttributeValueMemberS).Value
	item, exists := m.items[id]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, assign := range strings.Split(expr, ", ") {
		parts := strings.Split(assign, " = ")
		name := parts[0]
		if resolved, ok := params.ExpressionAttributeNames[name]; ok {
			name = resolved
		}
		item[name] = params.ExpressionAttributeValues[parts[1]]
	}
	m.items[id] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *simpleMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return nil, errors.New("not supported by mock")
}

func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return nil, errors.New("not supported by mock")
}

func seedPacker(t *testing.T, mock *simpleMock, p Packer) {
	t.Helper()
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		t.Fatalf("marshal packer: %v", err)
	}
	mock.items[p.PackerID] = item
}

func TestGet(t *testing.T) {
	mock := newSimpleMock()
	seedPacker(t, mock, Packer{PackerID: "P1", Username: "sohail", Email: "sohail@example.com"})
	store := NewStore(mock, "packers")

	got, err := store.Get(context.Background(), "P1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Username != "sohail" || got.Email != "sohail@example.com" {
		t.Fatalf("unexpected packer: %+v", got)
	}

	_, err = store.Get(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	mock := newSimpleMock()
	seedPacker(t, mock, Packer{PackerID: "P1", Username: "sohail", Email: "sohail@example.com"})
	store := NewStore(mock, "packers")

	got, err := store.Update(context.Background(), "P1", "sohail.k", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Username != "sohail.k" {
		t.Fatalf("username not updated: %+v", got)
	}
	if got.Email != "sohail@example.com" {
		t.Fatalf("email should be untouched: %+v", got)
	}

	if _, err := store.Update(context.Background(), "P1", "", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty update, got %v", err)
	}

	if _, err := store.Update(context.Background(), "missing", "x", ""); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
