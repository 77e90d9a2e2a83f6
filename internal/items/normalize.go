// Package items turns raw receipt lines into normalized items and provides
// the edits the manual-entry and edit-receipt screens perform on them.
package items

import (
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
)

// NewID returns a fresh item identifier. Tests may replace it.
var NewID = func() string {
	return "item-" + uuid.NewString()
}

// ValidPrice reports whether p is usable as an item price.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// Normalize validates raw items and gives each survivor a fresh ID and an
// empty assignment set. Entries with a blank name or an unusable price are
// dropped.
func Normalize(raw []models.RawItem) []models.Item {
	out := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" || !ValidPrice(r.Price) {
			continue
		}
		out = append(out, models.Item{
			ID:         NewID(),
			Name:       name,
			Price:      r.Price,
			AssignedTo: []string{},
		})
	}
	return out
}

// Restore revalidates items read back from the session carrier. Existing IDs
// are kept, a missing ID is filled in, and assignments are cleared: the
// assignment screen always starts from an unassigned receipt.
func Restore(stored []models.Item) []models.Item {
	out := Sanitize(stored)
	for i := range out {
		out[i].AssignedTo = []string{}
	}
	return out
}

// Sanitize drops items with a blank name or an unusable price, trims names
// and fills in missing or repeated IDs. Assignments are kept.
func Sanitize(stored []models.Item) []models.Item {
	out := make([]models.Item, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, it := range stored {
		name := strings.TrimSpace(it.Name)
		if name == "" || !ValidPrice(it.Price) {
			continue
		}
		id := it.ID
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		assigned := slices.Clone(it.AssignedTo)
		if assigned == nil {
			assigned = []string{}
		}
		out = append(out, models.Item{
			ID:         id,
			Name:       name,
			Price:      it.Price,
			AssignedTo: assigned,
		})
	}
	return out
}

// Subtotal sums item prices in slice order.
func Subtotal(items []models.Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}
