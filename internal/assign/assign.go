// Package assign maps receipt items to the people paying for them.
//
// Every function is pure: inputs are never modified and results share no
// mutable assignment sets with them.
package assign

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	ErrNoParticipants = errors.New("please add at least one person first")
	ErrEmptyName      = errors.New("person name is required")
)

// NewID returns a fresh person identifier. Tests may replace it.
var NewID = func() string {
	return "person-" + uuid.NewString()
}

// AddPerson appends a person with the trimmed name to the roster.
func AddPerson(people []models.Person, name string) ([]models.Person, models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return people, models.Person{}, ErrEmptyName
	}
	p := models.Person{ID: NewID(), Name: name}
	return append(slices.Clone(people), p), p, nil
}

// ToggleAssignment adds personID to the item's assignment set, or removes it
// if already present. An unknown itemID returns items unchanged.
func ToggleAssignment(items []models.Item, itemID, personID string) []models.Item {
	idx := slices.IndexFunc(items, func(it models.Item) bool { return it.ID == itemID })
	if idx < 0 {
		return items
	}

	out := slices.Clone(items)
	current := items[idx].AssignedTo
	if items[idx].IsAssignedTo(personID) {
		out[idx].AssignedTo = slices.DeleteFunc(slices.Clone(current), func(id string) bool {
			return id == personID
		})
	} else {
		out[idx].AssignedTo = append(slices.Clone(current), personID)
	}
	return out
}

// RemovePerson drops personID from the roster and from every item's
// assignment set. Both results are built before either is returned, so no
// caller ever sees an item pointing at a removed person.
func RemovePerson(people []models.Person, items []models.Item, personID string) ([]models.Person, []models.Item) {
	roster := slices.DeleteFunc(slices.Clone(people), func(p models.Person) bool {
		return p.ID == personID
	})

	out := make([]models.Item, len(items))
	for i, it := range items {
		it.AssignedTo = slices.DeleteFunc(slices.Clone(it.AssignedTo), func(id string) bool {
			return id == personID
		})
		if it.AssignedTo == nil {
			it.AssignedTo = []string{}
		}
		out[i] = it
	}
	return roster, out
}

// SplitEvenly assigns every item to the whole roster, replacing any existing
// assignments.
func SplitEvenly(items []models.Item, people []models.Person) ([]models.Item, error) {
	if len(people) == 0 {
		return items, ErrNoParticipants
	}
	out := make([]models.Item, len(items))
	for i, it := range items {
		it.AssignedTo = models.PersonIDs(people)
		out[i] = it
	}
	return out, nil
}

// Unassigned returns the items nobody is paying for.
func Unassigned(items []models.Item) []models.Item {
	var out []models.Item
	for _, it := range items {
		if len(it.AssignedTo) == 0 {
			out = append(out, it)
		}
	}
	return out
}

// PersonName resolves a person ID for display.
func PersonName(people []models.Person, personID string) string {
	for _, p := range people {
		if p.ID == personID {
			return p.Name
		}
	}
	return "Unknown"
}
