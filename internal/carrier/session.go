package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

// Session reads and writes typed values through a Store. Values are JSON
// encoded. Reads never fail: a missing, unreadable or corrupt value comes
// back as the zero value and is logged.
type Session struct {
	store Store
}

// NewSession wraps store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Store returns the underlying store.
func (s *Session) Store() Store {
	return s.store
}

// PutJSON encodes v and stores it under key.
func (s *Session) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// PutAmount stores a number the way the browser client does, as its plain
// decimal string.
func (s *Session) PutAmount(ctx context.Context, key string, v float64) error {
	if err := s.store.Set(ctx, key, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// RawItems reads a list of unvalidated items.
func (s *Session) RawItems(ctx context.Context, key string) []models.RawItem {
	return getJSON[[]models.RawItem](ctx, s, key)
}

// Items reads a list of items.
func (s *Session) Items(ctx context.Context, key string) []models.Item {
	return getJSON[[]models.Item](ctx, s, key)
}

// People reads a roster.
func (s *Session) People(ctx context.Context, key string) []models.Person {
	return getJSON[[]models.Person](ctx, s, key)
}

// Amount reads a number. Anything that is not a finite non-negative number
// reads as 0.
func (s *Session) Amount(ctx context.Context, key string) float64 {
	raw, ok := s.get(ctx, key)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		slog.Warn("Ignoring invalid carrier amount", "key", key, "value", raw)
		return 0
	}
	return v
}

// Has reports whether key holds a value.
func (s *Session) Has(ctx context.Context, key string) bool {
	_, ok := s.get(ctx, key)
	return ok
}

// Clear removes every pipeline key.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, AllKeys...)
}

// getJSON decodes the value under key. A value that fails to decode yields
// the zero T, never a partially filled one.
func getJSON[T any](ctx context.Context, s *Session, key string) T {
	var out T
	raw, ok := s.get(ctx, key)
	if !ok {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Warn("Ignoring corrupt carrier value", "key", key, "error", err)
		var zero T
		return zero
	}
	return out
}

func (s *Session) get(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read carrier value", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}
