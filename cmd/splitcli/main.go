// splitcli walks a receipt through the split flow from the terminal. Each
// subcommand is one screen; the session lives in a local SQLite file so the
// steps can run as separate invocations.
//
// Usage:
//
//	splitcli [-db path] scan -image receipt.jpg
//	splitcli manual -item "Pizza=12.50" -preset Coffee -tip 2
//	splitcli edit -rename 2=Latte -price 2=5.25 -remove 3 -tip 3 -tax 1.2
//	splitcli assign -person Alice -person Bob -item 1=Alice -item 2=Alice,Bob
//	splitcli assign -person Alice -person Bob -even
//	splitcli summary
//	splitcli reset
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mmynk/receiptsplit/internal/carrier"
	"github.com/mmynk/receiptsplit/internal/carrier/sqlite"
	"github.com/mmynk/receiptsplit/internal/config"
	"github.com/mmynk/receiptsplit/internal/gateway"
	"github.com/mmynk/receiptsplit/internal/pipeline"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

const usage = `Usage: splitcli [-db path] <command> [flags]

Commands:
  scan      extract items from a receipt image
  manual    enter items by hand
  edit      review and correct scanned items
  assign    add people and assign items to them
  summary   show what everyone owes
  reset     clear the session
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	dbPath := flag.String("db", cfg.CLI.DBPath, "session database file")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.CLI.DBPath = *dbPath
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.CLI.DBPath)
	if err != nil {
		slog.Error("Failed to open session database", "path", cfg.CLI.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		ctrl: pipeline.New(carrier.NewSession(store), gateway.New(cfg.GatewayConfig(), nil)),
		out:  os.Stdout,
	}
	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
