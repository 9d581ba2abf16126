package orders

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is an in-memory stand-in for the orders table plus its status
// GSI. It understands exactly the request shapes the Store issues: GetItem
// and UpdateItem by "id", and Query against statusCreatedAtIndex with an
// optional ExclusiveStartKey. Intentionally minimal, not production-grade.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	queryCalls  int
	updateCalls int
	failNext    error // returned (and cleared) by the next call when set
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := params.Item["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("no id in put item")
	}
	m.items[id.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	id, ok := params.Key["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("no id key")
	}
	item, ok := m.items[id.Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	id, ok := params.Key["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("no id key")
	}
	item, exists := m.items[id.Value]
	if !exists {
		if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" {
			return nil, &types.ConditionalCheckFailedException{}
		}
		item = map[string]types.AttributeValue{"id": params.Key["id"]}
	}
	// apply "SET #a = :x, #b = :y" by resolving aliases
	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, assign := range strings.Split(expr, ", ") {
		parts := strings.Split(assign, " = ")
		if len(parts) != 2 {
			return nil, errors.New("unsupported update expression: " + assign)
		}
		name := parts[0]
		if resolved, ok := params.ExpressionAttributeNames[name]; ok {
			name = resolved
		}
		value, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, errors.New("missing expression value " + parts[1])
		}
		item[name] = value
	}
	m.items[id.Value] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	status, ok := params.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("query without :status value")
	}

	// collect the status partition, newest createdAt first
	var matched []map[string]types.AttributeValue
	for _, item := range m.items {
		if s, ok := item["status"].(*types.AttributeValueMemberS); ok && s.Value == status.Value {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i], "createdAt") > stringAttr(matched[j], "createdAt")
	})

	if params.Select == types.SelectCount {
		return &dyn.QueryOutput{Count: int32(len(matched))}, nil
	}

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		afterID := stringAttr(params.ExclusiveStartKey, "id")
		for i, item := range matched {
			if stringAttr(item, "id") == afterID {
				start = i + 1
				break
			}
		}
	}

	end := len(matched)
	if params.Limit != nil && start+int(*params.Limit) < end {
		end = start + int(*params.Limit)
	}
	if start > end {
		start = end
	}
	page := matched[start:end]

	out := &dyn.QueryOutput{Items: page, Count: int32(len(page))}
	if end < len(matched) && len(page) > 0 {
		last := page[len(page)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id":        last["id"],
			"status":    last["status"],
			"createdAt": last["createdAt"],
		}
	}
	return out, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []map[string]types.AttributeValue
	for _, item := range m.items {
		all = append(all, item)
	}
	return &dyn.ScanOutput{Items: all, Count: int32(len(all))}, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
