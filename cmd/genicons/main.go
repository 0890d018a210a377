// genicons renders the front end's SVG icon sources to the PNG sizes the
// web manifest and Apple touch icon need.
//
// Usage: genicons   (no arguments; see config.Load for settings)
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Mavwarf/genicons/internal/config"
	"github.com/Mavwarf/genicons/internal/history"
	"github.com/Mavwarf/genicons/internal/icons"
	"github.com/Mavwarf/genicons/internal/mqtt"
	"github.com/Mavwarf/genicons/internal/render"
	"github.com/Mavwarf/genicons/internal/status"
)

type acquireFunc func(name string) (icons.Renderer, error)

func main() {
	status.Configure(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(cfg, render.Acquire, os.Stdout, os.Stderr))
}

// run performs one conversion pass and returns the process exit code:
// 1 when the renderer cannot be acquired (nothing is written), otherwise 0,
// or 1 in strict mode when any spec was skipped or failed.
func run(cfg config.Config, acquire acquireFunc, stdout, stderr io.Writer) int {
	icons.PrintHeader(stdout)

	r, err := acquire(cfg.Renderer)
	if err != nil {
		icons.PrintUnavailable(stdout, cfg.Dir, cfg.Renderer, render.InstallHint(cfg.Renderer), err)
		return 1
	}
	icons.PrintAvailable(stdout, cfg.Renderer)

	fmt.Fprintln(stdout, "Generating PNG files...")
	fmt.Fprintln(stdout)
	rep := icons.Convert(cfg.Dir, r, stdout)

	code := exitCode(cfg, rep)
	summary := history.FromReport(cfg.Renderer, cfg.Dir, code, rep)
	if cfg.Log {
		recordRun(cfg.HistoryDB, summary, stderr)
	}
	if cfg.MQTT.Broker != "" {
		publishRun(cfg.MQTT, summary, stderr)
	}
	return code
}

func exitCode(cfg config.Config, rep icons.Report) int {
	if cfg.Strict && rep.Failed() > 0 {
		return 1
	}
	return 0
}

// recordRun is best-effort: failures go to stderr and never change the
// exit code.
func recordRun(dbPath string, run history.Run, stderr io.Writer) {
	store, err := history.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Record(run); err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
	}
}

// publishRun is best-effort, same as recordRun.
func publishRun(m config.MQTT, run history.Run, stderr io.Writer) {
	payload, err := json.Marshal(run)
	if err != nil {
		fmt.Fprintf(stderr, "mqtt: %v\n", err)
		return
	}
	err = mqtt.Publish(mqtt.Options{
		Broker:   m.Broker,
		ClientID: m.ClientID,
		Topic:    m.Topic,
		Username: m.Username,
		Password: m.Password,
	}, payload)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
	}
}
