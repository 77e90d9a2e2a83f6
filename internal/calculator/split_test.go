package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	alice   = models.Person{ID: "p-alice", Name: "Alice"}
	bob     = models.Person{ID: "p-bob", Name: "Bob"}
	charlie = models.Person{ID: "p-charlie", Name: "Charlie"}
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.Item
		people       []models.Person
		tip, tax     float64
		validateFunc func(t *testing.T, got Totals)
	}{
		{
			name: "coffee and shared sandwich",
			items: []models.Item{
				{ID: "coffee", Name: "Coffee", Price: 4.50, AssignedTo: []string{"p-alice"}},
				{ID: "sandwich", Name: "Sandwich", Price: 8.99, AssignedTo: []string{"p-alice", "p-bob"}},
			},
			people: []models.Person{alice, bob},
			tip:    2.00,
			tax:    1.00,
			validateFunc: func(t *testing.T, got Totals) {
				// Alice: items = 4.50 + 8.99/2 = 8.995
				// Bob: items = 8.99/2 = 4.495
				// subtotal = 13.49, shares 8.995/13.49 and 4.495/13.49
				if math.Abs(got.Subtotal-13.49) > 1e-9 {
					t.Errorf("subtotal = %v, want 13.49", got.Subtotal)
				}
				if math.Abs(got.Total-16.49) > 1e-9 {
					t.Errorf("total = %v, want 16.49", got.Total)
				}

				a := got.PerPerson["p-alice"]
				if math.Abs(a.Subtotal-8.995) > 1e-9 {
					t.Errorf("Alice subtotal = %v, want 8.995", a.Subtotal)
				}
				if math.Abs(a.Tip-2.00*8.995/13.49) > 1e-9 {
					t.Errorf("Alice tip = %v", a.Tip)
				}
				if math.Abs(a.Tax-1.00*8.995/13.49) > 1e-9 {
					t.Errorf("Alice tax = %v", a.Tax)
				}
				if len(a.Items) != 2 {
					t.Errorf("Alice items: expected 2, got %d", len(a.Items))
				}

				b := got.PerPerson["p-bob"]
				if math.Abs(b.Subtotal-4.495) > 1e-9 {
					t.Errorf("Bob subtotal = %v, want 4.495", b.Subtotal)
				}
				if math.Abs(b.Tip-2.00*4.495/13.49) > 1e-9 {
					t.Errorf("Bob tip = %v", b.Tip)
				}
				if math.Abs(got.Allocated()-got.Total) > 0.01 {
					t.Errorf("allocated %v, total %v", got.Allocated(), got.Total)
				}
			},
		},
		{
			name: "unassigned item is not allocated",
			items: []models.Item{
				{ID: "pizza", Name: "Pizza", Price: 20, AssignedTo: []string{"p-alice"}},
				{ID: "salad", Name: "Salad", Price: 10, AssignedTo: []string{}},
			},
			people: []models.Person{alice, bob},
			tip:    3,
			validateFunc: func(t *testing.T, got Totals) {
				if got.Unassigned != 10 {
					t.Errorf("unassigned = %v, want 10", got.Unassigned)
				}
				if got.Total != 33 {
					t.Errorf("total = %v, want 33", got.Total)
				}
				// Alice: 20 + 3 × 20/30 = 22
				if math.Abs(got.PerPerson["p-alice"].Total-22) > 1e-9 {
					t.Errorf("Alice total = %v, want 22", got.PerPerson["p-alice"].Total)
				}
				if got.PerPerson["p-bob"].Total != 0 {
					t.Errorf("Bob total = %v, want 0", got.PerPerson["p-bob"].Total)
				}
			},
		},
		{
			name:   "zero subtotal gives zero tip and tax shares",
			items:  []models.Item{{ID: "water", Name: "Water", Price: 0, AssignedTo: []string{"p-alice"}}},
			people: []models.Person{alice},
			tip:    5,
			tax:    1,
			validateFunc: func(t *testing.T, got Totals) {
				a := got.PerPerson["p-alice"]
				if a.Tip != 0 || a.Tax != 0 || a.Total != 0 {
					t.Errorf("Alice = %+v, want all zero", a)
				}
				if got.Total != 6 {
					t.Errorf("total = %v, want 6", got.Total)
				}
			},
		},
		{
			name:  "no people still computes totals",
			items: []models.Item{{ID: "beer", Name: "Beer", Price: 6.5, AssignedTo: []string{"p-gone"}}},
			tax:   0.5,
			validateFunc: func(t *testing.T, got Totals) {
				if len(got.PerPerson) != 0 {
					t.Errorf("expected no splits, got %d", len(got.PerPerson))
				}
				if got.Total != 7 {
					t.Errorf("total = %v, want 7", got.Total)
				}
				if got.Unassigned != 6.5 {
					t.Errorf("unassigned = %v, want 6.5", got.Unassigned)
				}
			},
		},
		{
			name: "three people share one item, dangling and duplicate ids ignored",
			items: []models.Item{
				{ID: "pizza", Name: "Shared Pizza", Price: 30, AssignedTo: []string{"p-alice", "p-bob", "p-charlie", "p-bob", "p-gone"}},
			},
			people: []models.Person{alice, bob, charlie},
			tip:    2,
			tax:    1,
			validateFunc: func(t *testing.T, got Totals) {
				// Each person: 10 subtotal, 1 tip+tax, 11 total
				for _, p := range []models.Person{alice, bob, charlie} {
					split := got.PerPerson[p.ID]
					if math.Abs(split.Total-11) > 1e-9 {
						t.Errorf("%s total = %v, want 11", p.Name, split.Total)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.people, tt.tip, tt.tax)
			tt.validateFunc(t, got)
		})
	}
}

func TestComputeTotals_OnePersonPerItemSumsToTotal(t *testing.T) {
	people := []models.Person{alice, bob, charlie}
	items := []models.Item{
		{ID: "1", Name: "A", Price: 12.37, AssignedTo: []string{"p-alice"}},
		{ID: "2", Name: "B", Price: 7.01, AssignedTo: []string{"p-bob"}},
		{ID: "3", Name: "C", Price: 19.99, AssignedTo: []string{"p-charlie"}},
	}

	got := ComputeTotals(items, people, 6.13, 3.29)

	var rounded float64
	for _, split := range got.PerPerson {
		rounded += Round2(split.Total)
	}
	if math.Abs(rounded-Round2(got.Total)) > 0.01+1e-9 {
		t.Errorf("sum of rounded shares = %v, total = %v", rounded, got.Total)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{9.999, "$10.00"},
		{4.4949, "$4.49"},
		{0.125, "$0.13"},
		{0, "$0.00"},
		{13.49, "$13.49"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
