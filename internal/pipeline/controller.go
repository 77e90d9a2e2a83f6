// Package pipeline drives one receipt through the screen sequence:
// scan or manual entry, edit, assignment, summary.
//
// The Controller owns the session state. Each forward transition writes the
// keys the next screen reads through the carrier; each screen load reads
// them back. Back navigation never writes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/mmynk/receiptsplit/internal/assign"
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/carrier"
	"github.com/mmynk/receiptsplit/internal/gateway"
	"github.com/mmynk/receiptsplit/internal/items"
	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	ErrUnknownScreen  = errors.New("unknown screen")
	ErrWrongScreen    = errors.New("action not available on this screen")
	ErrNoImage        = errors.New("please select an image first")
	ErrScanInFlight   = errors.New("a scan is already in progress")
	ErrNoItems        = errors.New("please add at least one item")
	ErrNegativeAmount = errors.New("tip and tax must be non-negative numbers")
	ErrUnknownPerson  = errors.New("item assigned to someone not on the roster")
)

// SessionState is the typed view of everything the carrier holds for the
// current session.
type SessionState struct {
	Extracted []models.RawItem
	Receipt   models.Receipt
	Final     models.Assignment
}

// ScanOutcome is the result of a scan. Applied is false when the result
// arrived after the user moved on and was dropped.
type ScanOutcome struct {
	Items   []models.RawItem
	Message string
	Applied bool
}

// Summary is what the split-summary screen shows.
type Summary struct {
	Items  []models.Item
	People []models.Person
	Totals calculator.Totals
}

// Controller runs the flow for one session.
type Controller struct {
	session   *carrier.Session
	extractor gateway.Extractor

	mu       sync.Mutex
	state    SessionState
	screen   Screen
	history  []Screen
	image    string
	imageGen uint64
	scanning bool
}

// New creates a Controller on the home screen.
func New(session *carrier.Session, extractor gateway.Extractor) *Controller {
	return &Controller{
		session:   session,
		extractor: extractor,
		screen:    ScreenHome,
	}
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// State returns a copy of the session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SessionState{
		Extracted: slices.Clone(c.state.Extracted),
		Receipt: models.Receipt{
			Items:  slices.Clone(c.state.Receipt.Items),
			Totals: c.state.Receipt.Totals,
		},
		Final: models.Assignment{
			Items:  slices.Clone(c.state.Final.Items),
			People: slices.Clone(c.state.Final.People),
			Totals: c.state.Final.Totals,
		},
	}
}

// Navigate opens a screen directly, the way following a link does.
func (c *Controller) Navigate(to Screen) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownScreen, to)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(to)
	return nil
}

// Back returns to the previous screen. On the first screen it stays put.
func (c *Controller) Back() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.history); n > 0 {
		c.screen = c.history[n-1]
		c.history = c.history[:n-1]
	}
	return c.screen
}

// SelectImage sets the image to scan. A newer selection supersedes any scan
// still running for an older one.
func (c *Controller) SelectImage(base64Image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.image = base64Image
	c.imageGen++
}

// Scan sends the selected image to the extractor. Only one scan runs at a
// time. If the user leaves the scan screen or picks another image while the
// request is out, the result is returned but not stored.
func (c *Controller) Scan(ctx context.Context) (ScanOutcome, error) {
	c.mu.Lock()
	if c.screen != ScreenScan {
		c.mu.Unlock()
		return ScanOutcome{}, fmt.Errorf("%w: scan on %s", ErrWrongScreen, c.screen)
	}
	if c.image == "" {
		c.mu.Unlock()
		return ScanOutcome{}, ErrNoImage
	}
	if c.scanning {
		c.mu.Unlock()
		return ScanOutcome{}, ErrScanInFlight
	}
	c.scanning = true
	image, gen := c.image, c.imageGen
	c.mu.Unlock()

	res := c.extractor.Extract(ctx, image)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanning = false

	outcome := ScanOutcome{Items: res.Items, Message: res.Message}
	if c.screen != ScreenScan || c.imageGen != gen {
		slog.Info("Discarding superseded scan result", "screen", c.screen)
		return outcome, nil
	}

	if err := c.session.PutJSON(ctx, carrier.KeyExtractedItems, res.Items); err != nil {
		return outcome, err
	}
	c.state.Extracted = slices.Clone(res.Items)
	c.moveTo(ScreenEditReceipt)
	outcome.Applied = true
	return outcome, nil
}

// LoadEditReceipt reads the scan result for the edit-receipt screen.
// Tip and tax start at zero.
func (c *Controller) LoadEditReceipt(ctx context.Context) models.Receipt {
	raw := c.session.RawItems(ctx, carrier.KeyExtractedItems)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Extracted = raw
	return models.Receipt{Items: items.Normalize(raw)}
}

// SubmitReceipt validates the edited or manually entered receipt, stores it
// for the assignment screen and moves there.
func (c *Controller) SubmitReceipt(ctx context.Context, src Source, totals models.Totals) (models.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenEditReceipt && c.screen != ScreenManualEntry {
		return models.Receipt{}, fmt.Errorf("%w: submit receipt on %s", ErrWrongScreen, c.screen)
	}
	if err := validateTotals(totals); err != nil {
		return models.Receipt{}, err
	}
	list := Resolve(src)
	if len(list) == 0 {
		return models.Receipt{}, ErrNoItems
	}

	if err := c.session.PutJSON(ctx, carrier.KeyReceiptItems, list); err != nil {
		return models.Receipt{}, err
	}
	if err := c.session.PutAmount(ctx, carrier.KeyReceiptTip, totals.Tip); err != nil {
		return models.Receipt{}, err
	}
	if err := c.session.PutAmount(ctx, carrier.KeyReceiptTax, totals.Tax); err != nil {
		return models.Receipt{}, err
	}

	receipt := models.Receipt{Items: list, Totals: totals}
	c.state.Receipt = receipt
	c.moveTo(ScreenAssignItems)
	return receipt, nil
}

// LoadAssignItems reads the receipt for the assignment screen. Items come
// back unassigned.
func (c *Controller) LoadAssignItems(ctx context.Context) models.Receipt {
	receipt := models.Receipt{
		Items: items.Restore(c.session.Items(ctx, carrier.KeyReceiptItems)),
		Totals: models.Totals{
			Tip: c.session.Amount(ctx, carrier.KeyReceiptTip),
			Tax: c.session.Amount(ctx, carrier.KeyReceiptTax),
		},
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Receipt = receipt
	return receipt
}

// SubmitAssignment stores the assignments for the summary screen and moves
// there. It returns the items nobody was assigned so the caller can warn.
func (c *Controller) SubmitAssignment(ctx context.Context, a models.Assignment) ([]models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenAssignItems {
		return nil, fmt.Errorf("%w: submit assignment on %s", ErrWrongScreen, c.screen)
	}
	if len(a.People) == 0 {
		return nil, assign.ErrNoParticipants
	}
	if err := validateTotals(a.Totals); err != nil {
		return nil, err
	}
	roster := make(map[string]bool, len(a.People))
	for _, p := range a.People {
		roster[p.ID] = true
	}
	for _, it := range a.Items {
		if !items.ValidPrice(it.Price) {
			return nil, fmt.Errorf("%w: %q", items.ErrInvalidPrice, it.Name)
		}
		for _, id := range it.AssignedTo {
			if !roster[id] {
				return nil, fmt.Errorf("%w: %s on %q", ErrUnknownPerson, id, it.Name)
			}
		}
	}

	if err := c.session.PutJSON(ctx, carrier.KeyFinalItems, a.Items); err != nil {
		return nil, err
	}
	if err := c.session.PutJSON(ctx, carrier.KeyFinalPeople, a.People); err != nil {
		return nil, err
	}
	if err := c.session.PutAmount(ctx, carrier.KeyFinalTip, a.Totals.Tip); err != nil {
		return nil, err
	}
	if err := c.session.PutAmount(ctx, carrier.KeyFinalTax, a.Totals.Tax); err != nil {
		return nil, err
	}

	c.state.Final = a
	c.moveTo(ScreenSplitSummary)
	return assign.Unassigned(a.Items), nil
}

// LoadSummary reads the final assignments and computes the split.
func (c *Controller) LoadSummary(ctx context.Context) Summary {
	a := models.Assignment{
		Items:  items.Sanitize(c.session.Items(ctx, carrier.KeyFinalItems)),
		People: c.session.People(ctx, carrier.KeyFinalPeople),
		Totals: models.Totals{
			Tip: c.session.Amount(ctx, carrier.KeyFinalTip),
			Tax: c.session.Amount(ctx, carrier.KeyFinalTax),
		},
	}

	// Whatever was stored, never let an item point at someone who is gone.
	known := make(map[string]bool, len(a.People))
	for _, p := range a.People {
		known[p.ID] = true
	}
	for i := range a.Items {
		a.Items[i].AssignedTo = slices.DeleteFunc(a.Items[i].AssignedTo, func(id string) bool {
			return !known[id]
		})
	}

	c.mu.Lock()
	c.state.Final = a
	c.mu.Unlock()

	return Summary{
		Items:  a.Items,
		People: a.People,
		Totals: calculator.ComputeTotals(a.Items, a.People, a.Totals.Tip, a.Totals.Tax),
	}
}

// Reset clears the carrier and returns to the home screen.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = SessionState{}
	c.screen = ScreenHome
	c.history = nil
	c.image = ""
	c.imageGen++
	return nil
}

// moveTo moves to a screen, remembering the current one for Back.
// Callers hold c.mu.
func (c *Controller) moveTo(to Screen) {
	if to == c.screen {
		return
	}
	c.history = append(c.history, c.screen)
	c.screen = to
}

func validateTotals(t models.Totals) error {
	for _, v := range []float64{t.Tip, t.Tax} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}
