package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	puts  int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[pk]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk := in.Item["PK"].(*types.AttributeValueMemberS).Value
	_, exists := f.items[pk]
	switch aws.ToString(in.ConditionExpression) {
	case "attribute_not_exists(PK)":
		if exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	case "attribute_exists(PK)":
		if !exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
		}
	}
	f.items[pk] = in.Item
	f.puts++
	return &dynamodb.PutItemOutput{}, nil
}

// Scan returns one item per page to exercise pagination.
func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := in.ExclusiveStartKey["PK"].(*types.AttributeValueMemberS).Value
		for i, k := range keys {
			if k == after {
				start = i + 1
			}
		}
	}
	out := &dynamodb.ScanOutput{}
	if start < len(keys) {
		out.Items = []map[string]types.AttributeValue{f.items[keys[start]]}
		if start+1 < len(keys) {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: keys[start]},
			}
		}
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

type kvEntry struct {
	value    []byte
	revision uint64
}

type fakeKV struct {
	mu      sync.Mutex
	entries map[string]kvEntry
	rev     uint64
}

func newFakeKV() *fakeKV {
	return &fakeKV{entries: map[string]kvEntry{}}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return nil, 0, errKeyNotFound
	}
	return e.value, e.revision, nil
}

func (f *fakeKV) Create(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; ok {
		return errors.New("wrong last sequence")
	}
	f.rev++
	f.entries[key] = kvEntry{value: value, revision: f.rev}
	return nil
}

func (f *fakeKV) Update(_ context.Context, key string, value []byte, revision uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok || e.revision != revision {
		return errors.New("wrong last sequence")
	}
	f.rev++
	f.entries[key] = kvEntry{value: value, revision: f.rev}
	return nil
}

func (f *fakeKV) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeKV) Ping(_ context.Context) error { return nil }
