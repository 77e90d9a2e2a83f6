package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/assign"
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/items"
	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	errMissingItemID   = errors.New("item_id required")
	errMissingPersonID = errors.New("person_id required")
	errNegativeAmount  = errors.New("tip and tax must be non-negative numbers")
)

// SplitService implements the Connect SplitService. It holds no state: every
// request carries the receipt it operates on.
type SplitService struct{}

// NewSplitService creates a new SplitService.
func NewSplitService() *SplitService {
	return &SplitService{}
}

// Normalize turns raw receipt lines into items with IDs.
func (s *SplitService) Normalize(ctx context.Context, req *connect.Request[NormalizeRequest]) (*connect.Response[NormalizeResponse], error) {
	list := items.Normalize(req.Msg.Items)
	slog.Debug("Normalized items", "raw", len(req.Msg.Items), "kept", len(list))
	return connect.NewResponse(&NormalizeResponse{
		Items:    list,
		Subtotal: items.Subtotal(list),
	}), nil
}

// AddPerson appends a participant to the roster.
func (s *SplitService) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error) {
	people, person, err := assign.AddPerson(req.Msg.People, req.Msg.Name)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&AddPersonResponse{People: people, Person: person}), nil
}

// ToggleAssignment flips one person's membership on one item.
func (s *SplitService) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[ToggleAssignmentResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingItemID)
	}
	if req.Msg.PersonID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingPersonID)
	}
	return connect.NewResponse(&ToggleAssignmentResponse{
		Items: assign.ToggleAssignment(req.Msg.Items, req.Msg.ItemID, req.Msg.PersonID),
	}), nil
}

// RemovePerson drops a participant and every assignment referencing them.
func (s *SplitService) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[RemovePersonResponse], error) {
	if req.Msg.PersonID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingPersonID)
	}
	people, list := assign.RemovePerson(req.Msg.People, req.Msg.Items, req.Msg.PersonID)
	return connect.NewResponse(&RemovePersonResponse{People: people, Items: list}), nil
}

// SplitEvenly assigns every item to the whole roster.
func (s *SplitService) SplitEvenly(ctx context.Context, req *connect.Request[SplitEvenlyRequest]) (*connect.Response[SplitEvenlyResponse], error) {
	list, err := assign.SplitEvenly(req.Msg.Items, req.Msg.People)
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return connect.NewResponse(&SplitEvenlyResponse{Items: list}), nil
}

// ComputeTotals computes each participant's share with proportional tip and tax.
func (s *SplitService) ComputeTotals(ctx context.Context, req *connect.Request[ComputeTotalsRequest]) (*connect.Response[ComputeTotalsResponse], error) {
	if !items.ValidPrice(req.Msg.Tip) || !items.ValidPrice(req.Msg.Tax) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNegativeAmount)
	}
	for _, it := range req.Msg.Items {
		if !items.ValidPrice(it.Price) {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("%w: item %s", items.ErrInvalidPrice, it.ID))
		}
	}

	totals := calculator.ComputeTotals(req.Msg.Items, req.Msg.People, req.Msg.Tip, req.Msg.Tax)

	resp := &ComputeTotalsResponse{
		Subtotal:   totals.Subtotal,
		Tip:        totals.Tip,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Unassigned: totals.Unassigned,
		People:     make([]PersonTotal, 0, len(req.Msg.People)),
	}
	for _, p := range req.Msg.People {
		split, ok := totals.PerPerson[p.ID]
		if !ok {
			continue
		}
		slog.Debug("Person split",
			"person", p.ID,
			"subtotal", split.Subtotal,
			"tip", split.Tip,
			"tax", split.Tax,
			"total", split.Total,
			"items_count", len(split.Items),
		)
		resp.People = append(resp.People, personTotal(p, split))
	}
	return connect.NewResponse(resp), nil
}

func personTotal(p models.Person, split *models.PersonSplit) PersonTotal {
	personItems := split.Items
	if personItems == nil {
		personItems = []models.PersonItem{}
	}
	return PersonTotal{
		PersonID: p.ID,
		Name:     p.Name,
		Subtotal: split.Subtotal,
		Tip:      split.Tip,
		Tax:      split.Tax,
		Total:    split.Total,
		Items:    personItems,
	}
}
