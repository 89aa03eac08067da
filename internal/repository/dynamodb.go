package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

const historyPKPrefix = "HISTORY#"

// dynamodbAPI is the minimal DynamoDB interface required by DynamoRepository.
// *dynamodb.Client from aws-sdk-go-v2 satisfies this interface.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoRepository stores one DynamoDB item per session.
type DynamoRepository struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// NewDynamoRepository creates a DynamoDB backed repository.
func NewDynamoRepository(api dynamodbAPI, tableName string) (*DynamoRepository, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &DynamoRepository{api: api, tableName: tableName, now: time.Now}, nil
}

// historyPK returns the partition key for a session.
func historyPK(id string) string {
	return historyPKPrefix + id
}

// Name returns the backend name.
func (r *DynamoRepository) Name() string { return "dynamodb" }

// Ping describes the table.
func (r *DynamoRepository) Ping(ctx context.Context) error {
	_, err := r.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return fmt.Errorf("repository: describe table: %w", err)
	}
	return nil
}

// List scans the whole table. Acceptable for a single-user history.
func (r *DynamoRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	items := []model.HistoryItem{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("repository: List scan: %w", err)
		}
		for _, av := range out.Items {
			pk, _ := stringAttr(av, "PK")
			if !strings.HasPrefix(pk, historyPKPrefix) {
				continue
			}
			item, err := attrsToItem(av)
			if err != nil {
				return nil, fmt.Errorf("repository: List unmarshal: %w", err)
			}
			items = append(items, item)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	sortNewestFirst(items)
	return items, nil
}

// Upsert creates or updates an item. Conditional puts keep a create from
// overwriting and an update from resurrecting a missing session.
func (r *DynamoRepository) Upsert(ctx context.Context, p UpsertParams) (model.HistoryItem, error) {
	if p.SessionID == "" {
		item := newItem(p, r.now())
		if err := r.put(ctx, item, "attribute_not_exists(PK)"); err != nil {
			return model.HistoryItem{}, err
		}
		return item, nil
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: historyPK(p.SessionID)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: Upsert get: %w", err)
	}
	if len(out.Item) == 0 {
		return model.HistoryItem{}, ErrNotFound
	}
	item, err := attrsToItem(out.Item)
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: Upsert unmarshal: %w", err)
	}
	apply(&item, p)
	if err := r.put(ctx, item, "attribute_exists(PK)"); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return model.HistoryItem{}, ErrNotFound
		}
		return model.HistoryItem{}, err
	}
	return item, nil
}

func (r *DynamoRepository) put(ctx context.Context, item model.HistoryItem, condition string) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("repository: encode item: %w", err)
	}
	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"PK":        &types.AttributeValueMemberS{Value: historyPK(item.ID)},
			"CreatedAt": &types.AttributeValueMemberS{Value: item.CreatedAt},
			"Payload":   &types.AttributeValueMemberS{Value: string(payload)},
		},
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		return fmt.Errorf("repository: put item: %w", err)
	}
	return nil
}

func attrsToItem(av map[string]types.AttributeValue) (model.HistoryItem, error) {
	payload, ok := stringAttr(av, "Payload")
	if !ok {
		return model.HistoryItem{}, errors.New("missing Payload attribute")
	}
	var item model.HistoryItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return model.HistoryItem{}, err
	}
	item.Normalize()
	return item, nil
}

func stringAttr(av map[string]types.AttributeValue, key string) (string, bool) {
	v, ok := av[key].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return v.Value, true
}
