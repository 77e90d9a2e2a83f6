package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestAddItem(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		priceText string
		wantErr   error
	}{
		{name: "valid", itemName: "Coffee", priceText: "4.50"},
		{name: "trims name", itemName: "  Tea  ", priceText: "3"},
		{name: "zero price", itemName: "Water", priceText: "0"},
		{name: "empty name", itemName: " ", priceText: "1", wantErr: ErrEmptyName},
		{name: "negative price", itemName: "Refund", priceText: "-2", wantErr: ErrInvalidPrice},
		{name: "not a number", itemName: "Soup", priceText: "abc", wantErr: ErrInvalidPrice},
		{name: "empty price", itemName: "Soup", priceText: "", wantErr: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := []models.Item{{ID: "item-0", Name: "Existing", Price: 1}}
			got, err := AddItem(before, tt.itemName, tt.priceText)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, got, 1)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Len(t, before, 1, "input must not be modified")
			assert.NotEmpty(t, got[1].ID)
			assert.Empty(t, got[1].AssignedTo)
		})
	}
}

func TestAddPreset(t *testing.T) {
	got, err := AddPreset(nil, "burger")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Burger", got[0].Name)
	assert.Equal(t, 16.99, got[0].Price)

	_, err = AddPreset(nil, "Caviar")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestEditOperations(t *testing.T) {
	list := []models.Item{
		{ID: "a", Name: "Coffee", Price: 4.5},
		{ID: "b", Name: "Bagel", Price: 3},
	}

	renamed := Rename(list, "a", "Latte")
	assert.Equal(t, "Latte", renamed[0].Name)
	assert.Equal(t, "Coffee", list[0].Name)

	repriced, err := Reprice(list, "b", 3.25)
	require.NoError(t, err)
	assert.Equal(t, 3.25, repriced[1].Price)

	_, err = Reprice(list, "b", -1)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	removed := Remove(list, "a")
	require.Len(t, removed, 1)
	assert.Equal(t, "b", removed[0].ID)
	assert.Len(t, list, 2)

	assert.Equal(t, list, Rename(list, "missing", "x"))
	assert.Len(t, Remove(list, "missing"), 2)

	withBlank := AddBlank(list)
	require.Len(t, withBlank, 3)
	assert.Empty(t, withBlank[2].Name)
	assert.Len(t, Normalize([]models.RawItem{{Name: withBlank[2].Name, Price: withBlank[2].Price}}), 0)
}
