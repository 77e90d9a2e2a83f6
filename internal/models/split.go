package models

// RawItem is a receipt line before validation.
// Both the extraction gateway and manual entry produce RawItems; neither path
// is trusted, so every RawItem goes through normalization before use.
type RawItem struct {
	// Name is the item label as read from the receipt (e.g., "Coffee").
	Name string `json:"name"`

	// Price is the item price in currency units with two decimals.
	Price float64 `json:"price"`
}

// Item represents a single line item on a receipt.
// Items can be shared among multiple participants.
type Item struct {
	// ID is the unique identifier for the item within the session.
	// Assigned once at creation and never reused.
	ID string `json:"id"`

	// Name is the name or description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name"`

	// Price is the price of this item. Never negative.
	Price float64 `json:"price"`

	// AssignedTo is the set of person IDs who should split this item.
	// If multiple people are assigned, the item is split equally among them.
	// Order carries no meaning.
	AssignedTo []string `json:"assignedTo"`
}

// IsAssignedTo reports whether personID is in the item's assignment set.
func (i Item) IsAssignedTo(personID string) bool {
	for _, id := range i.AssignedTo {
		if id == personID {
			return true
		}
	}
	return false
}

// PersonItem represents an item's share for one person.
type PersonItem struct {
	ItemID      string  `json:"itemId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // This person's share of the item
}

// PersonSplit represents one person's calculated share of a receipt.
// This is the output of the split calculation algorithm.
// Amounts are unrounded; round only when presenting them.
type PersonSplit struct {
	// PersonID is the participant this split belongs to.
	PersonID string `json:"personId"`

	// Subtotal is the sum of this person's item shares (before tip and tax).
	Subtotal float64 `json:"subtotal"`

	// Tip is this person's proportional share of the tip.
	// Calculated as: tip × (subtotal / receipt_subtotal)
	Tip float64 `json:"tip"`

	// Tax is this person's proportional share of the tax.
	// Calculated as: tax × (subtotal / receipt_subtotal)
	Tax float64 `json:"tax"`

	// Total is the final amount this person owes (subtotal + tip + tax).
	Total float64 `json:"total"`

	// Items are the specific items assigned to this person with their share amounts.
	Items []PersonItem `json:"items"`
}
