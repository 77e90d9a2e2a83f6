package carrier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestSession_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSession(NewMemoryStore())

	items := []models.Item{{ID: "item-1", Name: "Coffee", Price: 4.5, AssignedTo: []string{"person-1"}}}
	people := []models.Person{{ID: "person-1", Name: "Alice"}}

	require.NoError(t, s.PutJSON(ctx, KeyFinalItems, items))
	require.NoError(t, s.PutJSON(ctx, KeyFinalPeople, people))
	require.NoError(t, s.PutAmount(ctx, KeyFinalTip, 2.5))

	assert.Equal(t, items, s.Items(ctx, KeyFinalItems))
	assert.Equal(t, people, s.People(ctx, KeyFinalPeople))
	assert.Equal(t, 2.5, s.Amount(ctx, KeyFinalTip))

	raw, ok, err := s.Store().Get(ctx, KeyFinalTip)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2.5", raw)
}

func TestSession_CorruptValuesReadAsNoData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := NewSession(store)

	require.NoError(t, store.Set(ctx, KeyReceiptItems, `[{"id":"x","name":`))
	require.NoError(t, store.Set(ctx, KeyFinalPeople, `{"id":"not a list"}`))
	require.NoError(t, store.Set(ctx, KeyReceiptTip, "lots"))
	require.NoError(t, store.Set(ctx, KeyReceiptTax, "-3"))

	assert.Nil(t, s.Items(ctx, KeyReceiptItems))
	assert.Nil(t, s.People(ctx, KeyFinalPeople))
	assert.Zero(t, s.Amount(ctx, KeyReceiptTip))
	assert.Zero(t, s.Amount(ctx, KeyReceiptTax))

	// missing keys
	assert.Nil(t, s.RawItems(ctx, KeyExtractedItems))
	assert.Zero(t, s.Amount(ctx, KeyFinalTax))
	assert.False(t, s.Has(ctx, KeyExtractedItems))
}

func TestSession_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewSession(NewMemoryStore())
	for _, k := range AllKeys {
		require.NoError(t, s.Store().Set(ctx, k, "[]"))
	}

	require.NoError(t, s.Clear(ctx))

	for _, k := range AllKeys {
		assert.False(t, s.Has(ctx, k), k)
	}
}
