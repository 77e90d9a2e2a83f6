package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	errNotArray     = errors.New("response is not an array")
	errNoValidItems = errors.New("no valid items found in response")
)

// jsonArray matches from the first '[' to the last ']' in the model output.
var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

// parseItems pulls the item array out of free-form model output. Elements
// without a string name and a numeric price are skipped.
func parseItems(content string) ([]models.RawItem, error) {
	text := content
	if m := jsonArray.FindString(content); m != "" {
		text = m
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	elems, ok := decoded.([]any)
	if !ok {
		return nil, errNotArray
	}

	var items []models.RawItem
	for _, e := range elems {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, nameOK := obj["name"].(string)
		price, priceOK := obj["price"].(float64)
		if !nameOK || !priceOK {
			continue
		}
		items = append(items, models.RawItem{Name: name, Price: price})
	}

	if len(items) == 0 {
		return nil, errNoValidItems
	}
	return items, nil
}
