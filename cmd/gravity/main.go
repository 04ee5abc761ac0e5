package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gravity/internal/client"
	"gravity/internal/config"
	"gravity/internal/logger"
	"gravity/internal/settings"
	"gravity/internal/wizard"
)

// app carries what the commands need.
type app struct {
	settings *settings.Store
	offers   *client.Client
	wizard   wizard.Options
	out      io.Writer
}

func main() {
	if len(os.Args) < 2 {
		help(os.Stderr)
		os.Exit(1)
	}
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so main exits only after they have run.
func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.NewStructured("warn", "console")

	backend, closeBackend, err := settings.OpenBackend(cfg.Settings)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	defer closeBackend()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		settings: settings.NewStore(backend),
		offers:   client.New(cfg.Client.ServerURL, nil, log),
		wizard:   wizard.OptionsFromConfig(cfg.Wizard),
		out:      os.Stdout,
	}
	return a.run(ctx, args)
}

func help(w io.Writer) {
	fmt.Fprintln(w, `Usage: gravity <command> [arguments]

Commands:
  settings show                       print the stored provider and keys (masked)
  settings set-provider <provider>    select openai or anthropic
  settings set-key <provider> <key>   store an API key
  offers list                         list offers, newest first
  wizard [--id N] step <n>            move an offer to step n (creates one without --id)
  wizard [--id N] set <field> <value> set a field; compound fields take JSON
  generate <prompt>                   stream a completion with the active key`)
}
