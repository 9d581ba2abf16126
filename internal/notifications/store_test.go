package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

// simpleMock stores notifications by id and filters Query by user_id.
type simpleMock struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newSimpleMock() *simpleMock {
	return &simpleMock{items: map[string]map[string]types.AttributeValue{}}
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Item["id"].(*types.AttributeValueMemberS).Value
	m.items[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return nil, errors.New("not supported by mock")
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not supported by mock")
}

func (m *simpleMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := params.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberS).Value
	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if u, ok := item["user_id"].(*types.AttributeValueMemberS); ok && u.Value == uid {
			items = append(items, item)
		}
	}
	return &dyn.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		items = append(items, item)
	}
	return &dyn.ScanOutput{Items: items, Count: int32(len(items))}, nil
}

func TestCreateAndListByUser(t *testing.T) {
	mock := newSimpleMock()
	store := NewStore(mock, "notifications")
	store.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if err := store.Create(ctx, Notification{ID: "N1", UserID: "U1", Message: "Order O1 packed", OrderID: "O1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, Notification{ID: "N2", UserID: "U2", Message: "Order O2 packed", OrderID: "O2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := store.ListByUser(ctx, "U1", 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].OrderID != "O1" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not stamped")
	}

	all, err := store.ListByUser(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListByUser(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}
}

func TestCreate_RequiresID(t *testing.T) {
	store := NewStore(newSimpleMock(), "notifications")
	err := store.Create(context.Background(), Notification{UserID: "U1", Message: "x"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
