// genicons-history prints or prunes the genicons runs recorded with
// GENICONS_LOG=true.
//
// Usage:
//
//	genicons-history [n]          show the last n runs (default 10)
//	genicons-history clean <days> remove runs older than days
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Mavwarf/genicons/internal/config"
	"github.com/Mavwarf/genicons/internal/history"
	"github.com/Mavwarf/genicons/internal/paths"
	"github.com/Mavwarf/genicons/internal/status"
)

const defaultLimit = 10

const usage = "Usage: genicons-history [n] | genicons-history clean <days>"

// command is a parsed invocation: either a listing of n runs or a clean
// of runs older than n days.
type command struct {
	clean bool
	n     int
}

func main() {
	status.Configure(os.Stdout)

	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !paths.Exists(cfg.HistoryDB) {
		fmt.Printf("No history at %s (enable with GENICONS_LOG=true).\n", cfg.HistoryDB)
		return
	}

	store, err := history.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := execute(store, cmd, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{n: defaultLimit}, nil
	}
	if args[0] == "clean" {
		if len(args) != 2 {
			return command{}, fmt.Errorf("clean requires a number of days")
		}
		days, err := positive(args[1])
		if err != nil {
			return command{}, fmt.Errorf("days must be a positive number, got %q", args[1])
		}
		return command{clean: true, n: days}, nil
	}
	if len(args) != 1 {
		return command{}, fmt.Errorf("unexpected arguments %q", args[1:])
	}
	n, err := positive(args[0])
	if err != nil {
		return command{}, fmt.Errorf("run count must be a positive number, got %q", args[0])
	}
	return command{n: n}, nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

func execute(store *history.SQLiteStore, cmd command, w io.Writer) error {
	if cmd.clean {
		removed, err := store.Clean(cmd.n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %d run(s) older than %d day(s).\n", removed, cmd.n)
		return nil
	}

	runs, err := store.Runs(cmd.n)
	if err != nil {
		return err
	}
	printRuns(w, runs)
	return nil
}

func printRuns(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for i, r := range runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  renderer=%s  dir=%s  generated=%d/%d  exit=%d\n",
			r.Time.Local().Format(time.DateTime), r.Renderer, r.Dir,
			r.Generated(), len(r.Conversions), r.ExitCode)
		for _, c := range r.Conversions {
			if c.Detail == "" {
				status.OK(w, "%s (%dx%d)", c.Output, c.Size, c.Size)
			} else {
				status.Fail(w, "%s (%dx%d) %s: %s", c.Output, c.Size, c.Size, c.Status, c.Detail)
			}
		}
	}
}
