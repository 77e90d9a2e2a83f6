package pipeline

import (
	"github.com/mmynk/receiptsplit/internal/items"
	"github.com/mmynk/receiptsplit/internal/models"
)

// Source is where a receipt's items came from: Scanned or Manual.
// Both resolve to the same normalized item list.
type Source interface {
	resolve() []models.Item
}

// Scanned holds items produced by the extraction gateway, possibly edited
// on the edit-receipt screen.
type Scanned struct {
	Items []models.Item
}

// Manual holds items typed in on the manual-entry screen.
type Manual struct {
	Items []models.Item
}

func (s Scanned) resolve() []models.Item { return items.Restore(s.Items) }

func (m Manual) resolve() []models.Item { return items.Restore(m.Items) }

// Resolve validates the source's items and returns them unassigned.
func Resolve(src Source) []models.Item {
	if src == nil {
		return []models.Item{}
	}
	return src.resolve()
}
