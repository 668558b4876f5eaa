package orders

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is an in-memory DynamoDB that supports GetItem and PutItem with
// the two condition expressions the order store emits. It stores items per
// table in a nested map: table -> pkValue -> item map.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// failConditionalPuts forces the next n conditional puts to fail, to
	// exercise retry exhaustion.
	failConditionalPuts int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func itemPK(item map[string]types.AttributeValue) (string, error) {
	for _, attr := range []string{"order_id", "config_id"} {
		if v, ok := item[attr]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("no primary key in item")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)

	pk, err := itemPK(params.Item)
	if err != nil {
		return nil, err
	}

	if params.ConditionExpression != nil {
		if m.failConditionalPuts > 0 {
			m.failConditionalPuts--
			return nil, &types.ConditionalCheckFailedException{}
		}
		switch *params.ConditionExpression {
		case "attribute_not_exists(order_id)":
			if _, exists := m.tables[table][pk]; exists {
				return nil, &types.ConditionalCheckFailedException{}
			}
		case "version = :expected":
			existing, exists := m.tables[table][pk]
			if !exists {
				return nil, &types.ConditionalCheckFailedException{}
			}
			curr, ok := existing["version"].(*types.AttributeValueMemberN)
			if !ok {
				return nil, &types.ConditionalCheckFailedException{}
			}
			expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
			if curr.Value != expected {
				return nil, &types.ConditionalCheckFailedException{}
			}
		default:
			return nil, errors.New("unsupported condition expression: " + *params.ConditionExpression)
		}
	}

	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)

	pk, err := itemPK(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}
