package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/retailops/order-workflow/internal/aws"
)

// configKey is the partition key of the single policy document.
const configKey = "default"

// record is the persisted shape: Config plus the fixed partition key.
type record struct {
	ConfigID string `dynamodbav:"config_id"`
	Config
}

// Store reads and writes the policy document. The document is versionless:
// writes replace it wholesale, last write wins.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get retrieves the current policy. Before staff persist one, the built-in
// defaults apply.
func (s *Store) Get(ctx context.Context) (Config, error) {
	input := &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"config_id": &types.AttributeValueMemberS{Value: configKey},
		},
	}
	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return Config{}, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return DefaultConfig(), nil
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return Config{}, fmt.Errorf("unmarshal policy: %w", err)
	}
	return rec.Config, nil
}

// Put replaces the policy document. The caller validates first; this write is
// deliberately unconditional (no versioning, no merge).
func (s *Store) Put(ctx context.Context, cfg Config) error {
	cfg.UpdatedAt = s.nowFunc().UTC()
	rec := record{ConfigID: configKey, Config: cfg}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}
