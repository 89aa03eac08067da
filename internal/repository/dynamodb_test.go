package repository

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestNewDynamoRepository_Validation(t *testing.T) {
	_, err := NewDynamoRepository(nil, "history")
	require.Error(t, err)

	_, err = NewDynamoRepository(newFakeDynamo(), "  ")
	require.Error(t, err)
}

func TestDynamoRepository_ItemLayout(t *testing.T) {
	api := newFakeDynamo()
	repo, err := NewDynamoRepository(api, "history")
	require.NoError(t, err)
	repo.now = newTestClock().Now

	item, err := repo.Upsert(context.Background(), UpsertParams{Prompt: "p", Slides: sampleSlides()})
	require.NoError(t, err)

	stored, ok := api.items["HISTORY#"+item.ID]
	require.True(t, ok)
	require.Equal(t, item.CreatedAt, stored["CreatedAt"].(*types.AttributeValueMemberS).Value)
	require.Contains(t, stored["Payload"].(*types.AttributeValueMemberS).Value, `"title":"Intro"`)
}

func TestDynamoRepository_ListSkipsForeignItems(t *testing.T) {
	api := newFakeDynamo()
	api.items["CONFIG#x"] = map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CONFIG#x"},
	}
	repo, err := NewDynamoRepository(api, "history")
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), UpsertParams{Prompt: "p"})
	require.NoError(t, err)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestDynamoRepository_UnknownSessionNoPut(t *testing.T) {
	api := newFakeDynamo()
	repo, err := NewDynamoRepository(api, "history")
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), UpsertParams{SessionID: "nope", Prompt: "p"})
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, api.puts)
}
