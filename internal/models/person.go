package models

// Person is one participant splitting the receipt.
type Person struct {
	// ID is the unique identifier for the person within the session.
	ID string `json:"id"`

	// Name is the display name. Never empty after trimming.
	Name string `json:"name"`
}

// PersonIDs returns the IDs of people in roster order.
func PersonIDs(people []Person) []string {
	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	return ids
}
