package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gravity/internal/client"
	"gravity/internal/models"
	"gravity/internal/relay"
	"gravity/internal/settings"
	"gravity/internal/wizard"
)

var errUsage = errors.New("invalid usage, run gravity help")

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if _, err := a.settings.Load(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "settings":
		return a.settingsCmd(ctx, args[1:])
	case "offers":
		return a.offersCmd(ctx, args[1:])
	case "wizard":
		return a.wizardCmd(ctx, args[1:])
	case "generate":
		return a.generateCmd(ctx, args[1:])
	case "help", "-h", "--help":
		help(a.out)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) settingsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "show":
		s := a.settings.Get()
		fmt.Fprintf(a.out, "provider:      %s\n", s.Provider)
		fmt.Fprintf(a.out, "openai key:    %s\n", mask(s.OpenAIKey))
		fmt.Fprintf(a.out, "anthropic key: %s\n", mask(s.AnthropicKey))
		return nil
	case "set-provider":
		if len(args) != 2 {
			return errUsage
		}
		p := args[1]
		if _, err := a.settings.Save(ctx, settings.Partial{Provider: &p}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "provider set to %s\n", p)
		return nil
	case "set-key":
		if len(args) != 3 {
			return errUsage
		}
		key := args[2]
		var p settings.Partial
		switch args[1] {
		case settings.ProviderOpenAI:
			p.OpenAIKey = &key
		case settings.ProviderAnthropic:
			p.AnthropicKey = &key
		default:
			return fmt.Errorf("unknown provider %q", args[1])
		}
		if _, err := a.settings.Save(ctx, p); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s key saved\n", args[1])
		return nil
	}
	return fmt.Errorf("unknown settings command %q", args[0])
}

func (a *app) offersCmd(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] != "list" {
		return errUsage
	}
	offers, err := a.offers.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tSTEP\tUPDATED")
	for _, o := range offers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", o.ID, o.Title, o.Status, o.CurrentStep, o.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *app) wizardCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("wizard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Uint("id", 0, "offer id; a new offer is created when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	var offerID *uint
	if *id != 0 {
		v := *id
		offerID = &v
	}
	s, err := wizard.Open(ctx, a.offers, offerID, nil, a.wizard)
	if err != nil {
		return err
	}

	var opErr error
	switch rest[0] {
	case "step":
		if len(rest) != 2 {
			opErr = errUsage
			break
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil || !s.GoTo(n) {
			opErr = fmt.Errorf("step must be between %d and %d", models.FirstStep, models.LastStep)
		}
	case "set":
		if len(rest) != 3 {
			opErr = errUsage
			break
		}
		c, err := wizard.ParseChange(rest[1], rest[2])
		if err == nil {
			err = s.Patch(c)
		}
		opErr = err
	default:
		opErr = fmt.Errorf("unknown wizard command %q", rest[0])
	}

	closeErr := s.Close(ctx)
	if opErr != nil {
		return opErr
	}
	if closeErr != nil {
		return closeErr
	}
	st := s.Status()
	d := s.Draft()
	fmt.Fprintf(a.out, "offer %d %q step %d: %s\n", d.ID, d.Title, d.CurrentStep, st.State)
	return nil
}

func (a *app) generateCmd(ctx context.Context, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return errUsage
	}
	s := a.settings.Get()
	err := a.offers.Generate(ctx, client.GenerateRequest{
		Prompt:   prompt,
		Provider: s.Provider,
		APIKey:   s.ActiveKey(),
	}, a.out)
	if errors.Is(err, relay.ErrAuthRequired) {
		return fmt.Errorf("no %s API key stored, run gravity settings set-key %s <key>", s.Provider, s.Provider)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	return nil
}

func mask(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
