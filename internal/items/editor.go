package items

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	ErrEmptyName     = errors.New("item name is required")
	ErrInvalidPrice  = errors.New("please enter a valid price")
	ErrUnknownPreset = errors.New("unknown preset item")
)

// Presets are the quick-add items offered on the manual-entry screen.
var Presets = []models.RawItem{
	{Name: "Coffee", Price: 4.5},
	{Name: "Sandwich", Price: 12.99},
	{Name: "Salad", Price: 14.5},
	{Name: "Burger", Price: 16.99},
	{Name: "Pizza (slice)", Price: 3.5},
	{Name: "Soda", Price: 2.99},
	{Name: "Beer", Price: 6.5},
	{Name: "Appetizer", Price: 8.99},
}

// ParsePrice parses user-entered price text.
func ParsePrice(text string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !ValidPrice(p) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	return p, nil
}

// AddItem appends a new item built from form input.
func AddItem(list []models.Item, name, priceText string) ([]models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return list, ErrEmptyName
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return list, err
	}
	return append(slices.Clone(list), models.Item{
		ID:         NewID(),
		Name:       name,
		Price:      price,
		AssignedTo: []string{},
	}), nil
}

// AddPreset appends the preset item with the given name.
func AddPreset(list []models.Item, preset string) ([]models.Item, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(preset)) {
			return append(slices.Clone(list), models.Item{
				ID:         NewID(),
				Name:       p.Name,
				Price:      p.Price,
				AssignedTo: []string{},
			}), nil
		}
	}
	return list, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
}

// AddBlank appends an empty row for the user to fill in. Rows left blank are
// dropped when the receipt is submitted.
func AddBlank(list []models.Item) []models.Item {
	return append(slices.Clone(list), models.Item{ID: NewID(), AssignedTo: []string{}})
}

// Rename sets the name of the item with the given ID.
func Rename(list []models.Item, id, name string) []models.Item {
	return update(list, id, func(it *models.Item) { it.Name = name })
}

// Reprice sets the price of the item with the given ID.
func Reprice(list []models.Item, id string, price float64) ([]models.Item, error) {
	if !ValidPrice(price) {
		return list, ErrInvalidPrice
	}
	return update(list, id, func(it *models.Item) { it.Price = price }), nil
}

// Remove drops the item with the given ID.
func Remove(list []models.Item, id string) []models.Item {
	return slices.DeleteFunc(slices.Clone(list), func(it models.Item) bool {
		return it.ID == id
	})
}

func update(list []models.Item, id string, fn func(*models.Item)) []models.Item {
	idx := slices.IndexFunc(list, func(it models.Item) bool { return it.ID == id })
	if idx < 0 {
		return list
	}
	out := slices.Clone(list)
	fn(&out[idx])
	return out
}
