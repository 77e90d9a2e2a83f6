// Package gateway extracts receipt items from an image by asking a
// vision-language model, and falls back to a fixed item list whenever that
// does not work out. Callers always get a usable item list.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/receiptsplit/internal/models"
)

// Reason records why a Result holds fallback data. It is a side channel for
// logs and metrics; item consumers never look at it.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNoCredentials Reason = "no_credentials"
	ReasonImageTooShort Reason = "image_too_short"
	ReasonUpstreamError Reason = "upstream_error"
	ReasonBadStatus     Reason = "upstream_status"
	ReasonUnparseable   Reason = "unparseable_response"
)

const placeholderAPIKey = "your_together_api_key_here"

// Result is the outcome of one extraction.
type Result struct {
	Items       []models.RawItem
	Message     string
	Error       string
	RawResponse string
	Reason      Reason
}

// Fallback reports whether the items are the mock set.
func (r Result) Fallback() bool {
	return r.Reason != ReasonNone
}

// Extractor turns a base64 image into raw receipt items.
type Extractor interface {
	Extract(ctx context.Context, base64Image string) Result
}

// MockItems returns the placeholder receipt used for every fallback.
func MockItems() []models.RawItem {
	return []models.RawItem{
		{Name: "Coffee", Price: 4.5},
		{Name: "Sandwich", Price: 8.99},
		{Name: "Salad", Price: 12.75},
		{Name: "Soda", Price: 2.25},
	}
}

// Config configures the upstream model call.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	MinImageLength int
	MaxTokens      int
	Temperature    float64
}

// DefaultConfig returns the settings the Together AI integration ships with.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.together.xyz",
		Model:          "meta-llama/Llama-3.2-11B-Vision-Instruct-Turbo",
		Timeout:        30 * time.Second,
		MinImageLength: 100,
		MaxTokens:      1000,
		Temperature:    0.1,
	}
}

// Ensure Gateway implements Extractor
var _ Extractor = (*Gateway)(nil)

// Gateway calls the vision model and applies the fallback contract.
type Gateway struct {
	cfg     Config
	client  *http.Client
	metrics *Metrics
	group   singleflight.Group
}

// New creates a Gateway. metrics may be nil.
func New(cfg Config, metrics *Metrics) *Gateway {
	return &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
	}
}

// Extract returns the items found in base64Image, or the mock items with a
// message explaining why. Concurrent calls for the same image share one
// upstream request. The shared request is bounded by the configured timeout,
// not by any one caller's ctx; a caller whose ctx ends stops waiting and gets
// the error fallback while the others keep theirs.
func (g *Gateway) Extract(ctx context.Context, base64Image string) Result {
	start := time.Now()

	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(imageKey(base64Image), func() (any, error) {
		return g.extract(detached, base64Image), nil
	})

	var (
		res    Result
		shared bool
	)
	select {
	case r := <-ch:
		res, shared = r.Val.(Result), r.Shared
		res.Items = slices.Clone(res.Items)
	case <-ctx.Done():
		res = ErrorFallback(ctx.Err())
	}

	g.metrics.observe(res.Reason, time.Since(start))
	if res.Fallback() {
		slog.Warn("Extraction fell back to mock data",
			"reason", res.Reason,
			"message", res.Message,
			"error", res.Error,
			"shared", shared,
		)
	} else {
		slog.Info("Receipt extracted",
			"items", len(res.Items),
			"duration_ms", time.Since(start).Milliseconds(),
			"shared", shared,
		)
	}
	return res
}

func (g *Gateway) extract(ctx context.Context, base64Image string) Result {
	if g.cfg.APIKey == "" || g.cfg.APIKey == placeholderAPIKey {
		return fallback(ReasonNoCredentials,
			"Mock data returned - configure TOGETHER_API_KEY for real processing")
	}

	if len(base64Image) < g.cfg.MinImageLength {
		return fallback(ReasonImageTooShort, "Image data too short, using mock data")
	}

	content, err := g.complete(ctx, base64Image)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			res := fallback(ReasonBadStatus,
				fmt.Sprintf("API error (%d), returning mock data", statusErr.Code))
			res.Error = statusErr.Body
			return res
		}
		return ErrorFallback(err)
	}

	items, err := parseItems(content)
	if err != nil {
		slog.Debug("Failed to parse AI response", "error", err, "content", content)
		res := fallback(ReasonUnparseable, "Failed to parse AI response, returning mock data")
		res.RawResponse = content
		return res
	}

	return Result{Items: items}
}

// ErrorFallback builds the fallback for any failure without a more specific
// reason.
func ErrorFallback(err error) Result {
	res := fallback(ReasonUpstreamError, "Error occurred, returning mock data")
	res.Error = err.Error()
	return res
}

func fallback(reason Reason, message string) Result {
	return Result{
		Items:   MockItems(),
		Message: message,
		Reason:  reason,
	}
}

func imageKey(base64Image string) string {
	sum := sha256.Sum256([]byte(base64Image))
	return hex.EncodeToString(sum[:])
}
