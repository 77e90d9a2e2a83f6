// Package calculator computes how a receipt's cost is shared between people.
package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/receiptsplit/internal/models"
)

// Totals is the result of splitting a receipt.
// All amounts are unrounded; see Round2 and FormatMoney for presentation.
type Totals struct {
	Subtotal float64
	Tip      float64
	Tax      float64
	Total    float64

	// Unassigned is the part of Subtotal that no one was assigned.
	// It is reported rather than spread over the participants.
	Unassigned float64

	PerPerson map[string]*models.PersonSplit
}

// ComputeTotals computes how much each person owes including proportional tip and tax.
//
// Each item is split evenly among its own assignees. A person's tip is
// tip × person_subtotal / receipt_subtotal, and tax likewise, where the receipt
// subtotal includes unassigned items; their share of tip and tax is left
// unallocated along with them. When the receipt subtotal is zero nobody is
// charged tip or tax. Assignee IDs that are not on the roster are ignored, and
// an ID listed twice on one item counts once.
func ComputeTotals(items []models.Item, people []models.Person, tip, tax float64) Totals {
	t := Totals{
		Tip:       tip,
		Tax:       tax,
		PerPerson: make(map[string]*models.PersonSplit, len(people)),
	}

	// Initialize splits for all participants
	for _, p := range people {
		t.PerPerson[p.ID] = &models.PersonSplit{PersonID: p.ID}
	}

	for _, item := range items {
		t.Subtotal += item.Price

		assignees := rosterAssignees(item.AssignedTo, t.PerPerson)
		if len(assignees) == 0 {
			t.Unassigned += item.Price
			continue
		}

		// Split item among assigned people
		perPersonAmount := item.Price / float64(len(assignees))
		for _, id := range assignees {
			split := t.PerPerson[id]
			split.Subtotal += perPersonAmount
			split.Items = append(split.Items, models.PersonItem{
				ItemID:      item.ID,
				Description: item.Name,
				Amount:      perPersonAmount,
			})
		}
	}
	t.Total = t.Subtotal + tip + tax

	// Apply proportional tip and tax and calculate totals
	for _, split := range t.PerPerson {
		if t.Subtotal != 0 {
			share := split.Subtotal / t.Subtotal
			split.Tip = tip * share
			split.Tax = tax * share
		}
		split.Total = split.Subtotal + split.Tip + split.Tax
	}

	return t
}

// Allocated sums every person's total.
func (t Totals) Allocated() float64 {
	var sum float64
	for _, split := range t.PerPerson {
		sum += split.Total
	}
	return sum
}

func rosterAssignees(assignedTo []string, roster map[string]*models.PersonSplit) []string {
	seen := make(map[string]bool, len(assignedTo))
	out := make([]string, 0, len(assignedTo))
	for _, id := range assignedTo {
		if _, ok := roster[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Round2 rounds an amount to cents, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders an amount with two fixed decimals and a dollar sign.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", Round2(v))
}
