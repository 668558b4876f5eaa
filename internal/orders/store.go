package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/retailops/order-workflow/internal/aws"
)

// ErrVersionConflict means a conditional write lost a race: the record changed
// since it was read. Callers re-read and retry a bounded number of times.
var ErrVersionConflict = errors.New("order version conflict")

// ErrAlreadyExists means Create found an existing record for the order id.
var ErrAlreadyExists = errors.New("order already exists")

// Store encapsulates operations on the orders table. Every write is a
// compare-and-swap on the version attribute.
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

// Create persists a brand-new order. The write is conditioned on the order id
// not existing, and the stored record starts at version 1.
func (s *Store) Create(ctx context.Context, o *Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.nowFunc().UTC()
	}
	o.Version = 1

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, o.ID)
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by id. Returns (nil, nil) if not found. The returned
// order carries the version token for a subsequent Put.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// Put writes the full order record conditioned on the stored version still
// being expectedVersion, and bumps the version on the way in. Returns
// ErrVersionConflict if another writer got there first.
func (s *Store) Put(ctx context.Context, o *Order, expectedVersion int64) error {
	o.Version = expectedVersion + 1

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		o.Version = expectedVersion // restore so retries re-read cleanly
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return ErrVersionConflict
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
