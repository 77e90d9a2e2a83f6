package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mmynk/receiptsplit/internal/assign"
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/items"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/pipeline"
)

var (
	errUnknownCommand  = errors.New("unknown command")
	errDuplicatePerson = errors.New("name already in the group")
)

type app struct {
	ctrl *pipeline.Controller
	out  io.Writer
}

// multiFlag collects a flag given several times.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// optionalAmount is a money flag that remembers whether it was set.
type optionalAmount struct {
	value float64
	set   bool
}

func (o *optionalAmount) String() string { return strconv.FormatFloat(o.value, 'f', -1, 64) }

func (o *optionalAmount) Set(v string) error {
	f, err := items.ParsePrice(v)
	if err != nil {
		return err
	}
	o.value, o.set = f, true
	return nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "scan":
		return a.scan(ctx, args)
	case "manual":
		return a.manual(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "assign":
		return a.assign(ctx, args)
	case "summary":
		return a.summary(ctx, args)
	case "reset":
		if err := a.ctrl.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Session cleared.")
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, command)
	}
}

func (a *app) scan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	imagePath := fs.String("image", "", "receipt image file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *imagePath == "" {
		return errors.New("-image is required")
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	if err := a.ctrl.Navigate(pipeline.ScreenScan); err != nil {
		return err
	}
	a.ctrl.SelectImage(base64.StdEncoding.EncodeToString(data))

	fmt.Fprintln(a.out, "Processing...")
	outcome, err := a.ctrl.Scan(ctx)
	if err != nil {
		return err
	}
	if outcome.Message != "" {
		fmt.Fprintln(a.out, outcome.Message)
	}
	a.printReceipt(models.Receipt{Items: items.Normalize(outcome.Items)})
	fmt.Fprintln(a.out, "Next: splitcli edit")
	return nil
}

func (a *app) manual(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("manual", flag.ContinueOnError)
	var entries, presets multiFlag
	var tip, tax optionalAmount
	fs.Var(&entries, "item", "item as Name=price (repeatable)")
	fs.Var(&presets, "preset", "add a common item by name (repeatable)")
	fs.Var(&tip, "tip", "tip amount")
	fs.Var(&tax, "tax", "tax amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list []models.Item
	var err error
	for _, e := range entries {
		name, price, _ := strings.Cut(e, "=")
		if list, err = items.AddItem(list, name, price); err != nil {
			return fmt.Errorf("item %q: %w", e, err)
		}
	}
	for _, p := range presets {
		if list, err = items.AddPreset(list, p); err != nil {
			return fmt.Errorf("preset %q: %w", p, err)
		}
	}

	if err := a.ctrl.Navigate(pipeline.ScreenManualEntry); err != nil {
		return err
	}
	receipt, err := a.ctrl.SubmitReceipt(ctx, pipeline.Manual{Items: list}, models.Totals{Tip: tip.value, Tax: tax.value})
	if err != nil {
		return err
	}
	a.printReceipt(receipt)
	fmt.Fprintln(a.out, "Next: splitcli assign")
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	var renames, prices, removes, adds multiFlag
	var tip, tax optionalAmount
	fs.Var(&renames, "rename", "rename item as N=name (repeatable)")
	fs.Var(&prices, "price", "reprice item as N=price (repeatable)")
	fs.Var(&removes, "remove", "remove item N (repeatable)")
	fs.Var(&adds, "add", "add item as Name=price (repeatable)")
	fs.Var(&tip, "tip", "tip amount")
	fs.Var(&tax, "tax", "tax amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.ctrl.Navigate(pipeline.ScreenEditReceipt); err != nil {
		return err
	}
	receipt := a.ctrl.LoadEditReceipt(ctx)
	list := receipt.Items

	// Item numbers refer to the list as loaded, before any edit.
	ids := make([]string, len(list))
	for i, it := range list {
		ids[i] = it.ID
	}
	itemID := func(ref string) (string, error) {
		n, err := strconv.Atoi(strings.TrimSpace(ref))
		if err != nil || n < 1 || n > len(ids) {
			return "", fmt.Errorf("no item %q", ref)
		}
		return ids[n-1], nil
	}

	for _, r := range renames {
		ref, name, _ := strings.Cut(r, "=")
		id, err := itemID(ref)
		if err != nil {
			return err
		}
		list = items.Rename(list, id, name)
	}
	for _, p := range prices {
		ref, text, _ := strings.Cut(p, "=")
		id, err := itemID(ref)
		if err != nil {
			return err
		}
		price, err := items.ParsePrice(text)
		if err != nil {
			return fmt.Errorf("item %s: %w", ref, err)
		}
		if list, err = items.Reprice(list, id, price); err != nil {
			return err
		}
	}
	for _, r := range removes {
		id, err := itemID(r)
		if err != nil {
			return err
		}
		list = items.Remove(list, id)
	}
	for _, e := range adds {
		name, text, _ := strings.Cut(e, "=")
		price, err := items.ParsePrice(text)
		if err != nil {
			return fmt.Errorf("item %q: %w", e, err)
		}
		list = items.AddBlank(list)
		id := list[len(list)-1].ID
		list = items.Rename(list, id, name)
		if list, err = items.Reprice(list, id, price); err != nil {
			return err
		}
	}

	totals := models.Totals{Tip: tip.value, Tax: tax.value}
	submitted, err := a.ctrl.SubmitReceipt(ctx, pipeline.Scanned{Items: list}, totals)
	if err != nil {
		return err
	}
	a.printReceipt(submitted)
	fmt.Fprintln(a.out, "Next: splitcli assign")
	return nil
}

func (a *app) assign(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assign", flag.ContinueOnError)
	var names, picks multiFlag
	var tip, tax optionalAmount
	even := fs.Bool("even", false, "split every item among everyone")
	fs.Var(&names, "person", "add a person (repeatable)")
	fs.Var(&picks, "item", "assign item as N=name[,name...] (repeatable)")
	fs.Var(&tip, "tip", "override the receipt tip")
	fs.Var(&tax, "tax", "override the receipt tax")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.ctrl.Navigate(pipeline.ScreenAssignItems); err != nil {
		return err
	}
	receipt := a.ctrl.LoadAssignItems(ctx)
	if len(receipt.Items) == 0 {
		return errors.New("no receipt items found, run scan or manual first")
	}

	var people []models.Person
	for _, n := range names {
		// -item refers to people by name, so names must tell them apart.
		if _, dup := findPerson(people, n); dup {
			return fmt.Errorf("person %q: %w", strings.TrimSpace(n), errDuplicatePerson)
		}
		var err error
		if people, _, err = assign.AddPerson(people, n); err != nil {
			return fmt.Errorf("person %q: %w", n, err)
		}
	}

	list := receipt.Items
	if *even {
		var err error
		if list, err = assign.SplitEvenly(list, people); err != nil {
			return err
		}
	}
	for _, p := range picks {
		ref, who, _ := strings.Cut(p, "=")
		n, err := strconv.Atoi(strings.TrimSpace(ref))
		if err != nil || n < 1 || n > len(list) {
			return fmt.Errorf("no item %q", ref)
		}
		for _, name := range strings.Split(who, ",") {
			person, ok := findPerson(people, name)
			if !ok {
				return fmt.Errorf("item %s: %q is not in the group", ref, strings.TrimSpace(name))
			}
			list = assign.ToggleAssignment(list, list[n-1].ID, person.ID)
		}
	}

	totals := receipt.Totals
	if tip.set {
		totals.Tip = tip.value
	}
	if tax.set {
		totals.Tax = tax.value
	}

	unassigned, err := a.ctrl.SubmitAssignment(ctx, models.Assignment{Items: list, People: people, Totals: totals})
	if err != nil {
		return err
	}
	if len(unassigned) > 0 {
		fmt.Fprintf(a.out, "Warning: %d item(s) are not assigned to anyone:\n", len(unassigned))
		for _, it := range unassigned {
			fmt.Fprintf(a.out, "  %s\t%s\n", it.Name, calculator.FormatMoney(it.Price))
		}
	}
	fmt.Fprintln(a.out, "Next: splitcli summary")
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ctrl.Navigate(pipeline.ScreenSplitSummary); err != nil {
		return err
	}
	s := a.ctrl.LoadSummary(ctx)
	if len(s.People) == 0 {
		return errors.New("no split found, run assign first")
	}

	t := s.Totals
	fmt.Fprintf(a.out, "Subtotal %s  Tip %s  Tax %s  Total %s\n\n",
		calculator.FormatMoney(t.Subtotal),
		calculator.FormatMoney(t.Tip),
		calculator.FormatMoney(t.Tax),
		calculator.FormatMoney(t.Total))

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Person\tSubtotal\tTip\tTax\tTotal\t")
	for _, p := range s.People {
		split := t.PerPerson[p.ID]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", p.Name,
			calculator.FormatMoney(split.Subtotal),
			calculator.FormatMoney(split.Tip),
			calculator.FormatMoney(split.Tax),
			calculator.FormatMoney(split.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nItems:")
	for _, it := range s.Items {
		names := make([]string, 0, len(it.AssignedTo))
		for _, id := range it.AssignedTo {
			names = append(names, assign.PersonName(s.People, id))
		}
		who := strings.Join(names, ", ")
		if who == "" {
			who = "(nobody)"
		}
		fmt.Fprintf(a.out, "  %s  %s  %s\n", it.Name, calculator.FormatMoney(it.Price), who)
	}
	if t.Unassigned > 0 {
		fmt.Fprintf(a.out, "\nUnassigned: %s (split covers %s of %s)\n",
			calculator.FormatMoney(t.Unassigned),
			calculator.FormatMoney(t.Allocated()),
			calculator.FormatMoney(t.Total))
	}
	return nil
}

func (a *app) printReceipt(r models.Receipt) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for i, it := range r.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, it.Name, calculator.FormatMoney(it.Price))
	}
	w.Flush()
	fmt.Fprintf(a.out, "Subtotal %s", calculator.FormatMoney(items.Subtotal(r.Items)))
	if r.Totals.Tip > 0 || r.Totals.Tax > 0 {
		fmt.Fprintf(a.out, "  Tip %s  Tax %s", calculator.FormatMoney(r.Totals.Tip), calculator.FormatMoney(r.Totals.Tax))
	}
	fmt.Fprintln(a.out)
}

func findPerson(people []models.Person, name string) (models.Person, bool) {
	name = strings.TrimSpace(name)
	for _, p := range people {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.Person{}, false
}
