package models

// Totals holds the receipt-level amounts that are not line items.
// They are entered once on the edit or manual-entry screen and carried
// forward unchanged to the summary.
type Totals struct {
	Tip float64 `json:"tip"`
	Tax float64 `json:"tax"`
}

// Receipt is the item list plus totals handed from the edit or manual-entry
// screen to the assignment screen.
type Receipt struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Assignment is everything the summary screen needs: the assigned items,
// the roster, and the receipt totals.
type Assignment struct {
	Items  []Item   `json:"items"`
	People []Person `json:"people"`
	Totals Totals   `json:"totals"`
}
