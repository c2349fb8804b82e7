package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/notify"
	"github.com/wakephrase/wakephrase/internal/ring"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

type WatchCmd struct {
	NoNotify bool `help:"Disable desktop notifications through the tray helper."`
}

// Run keeps the process alive as the firing surface: it re-registers every
// active alarm on this process's timer substrate and rings alarms as their
// timers fire, driving the dismiss/snooze challenge flow interactively.
func (c *WatchCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.Load(context.Background()); err != nil {
		return err
	}

	live := ctx.Store.ReconcileAll()
	fmt.Printf("Watching %d registration(s).\n", live)
	fmt.Println(ctx.Engine.NextOccurrence(ctx.Store.Alarms()))

	var attention ring.Attention = notify.NewBridge()
	if c.NoNotify {
		attention = ring.NoopAttention{}
	}
	controller := ring.NewController(ctx.Store, ctx.Engine, ctx.Sound, ctx.API, attention)

	// Ctrl-C closes the registry, which ends the event loop.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		ctx.Registry.Close()
	}()

	for fired := range ctx.Registry.Events() {
		session, ok := controller.HandleFired(context.Background(), fired.Payload)
		if !ok {
			continue
		}
		c.ring(ctx, controller, session)
		fmt.Println(ctx.Engine.NextOccurrence(ctx.Store.Alarms()))
	}

	ctx.Sound.Stop()
	fmt.Println("Stopped watching.")
	return nil
}

func (c *WatchCmd) ring(ctx *cli.Context, controller *ring.Controller, session *ring.Session) {
	display := session.Alarm.Time
	if hour, minute, err := timeutil.ParseClock(session.Alarm.Time); err == nil {
		display = timeutil.FormatDisplay(hour, minute)
	}
	fmt.Printf("\n⏰ %s — %s\n\n", display, session.Alarm.Label)

	for controller.Phase() != ring.Idle {
		action := constants.ActionDismiss
		choice := huh.NewSelect[constants.Action]().
			Title("Alarm ringing").
			Options(
				huh.NewOption("Dismiss", constants.ActionDismiss),
				huh.NewOption("Snooze", constants.ActionSnooze),
			).
			Value(&action)
		if err := huh.NewForm(huh.NewGroup(choice)).Run(); err != nil {
			// Aborted form: keep ringing, ask again.
			continue
		}

		phrase, awaiting, err := controller.RequestAction(context.Background(), action)
		if err != nil || !awaiting {
			continue
		}

		c.challenge(controller, action, phrase)
	}
}

func (c *WatchCmd) challenge(controller *ring.Controller, action constants.Action, phrase string) {
	input := ""
	for controller.Phase() == ring.AwaitingChallenge {
		field := huh.NewInput().
			Title(fmt.Sprintf("Type this phrase to %s:", action)).
			Description(phrase).
			Value(&input)
		if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
			return
		}

		switch err := controller.SubmitChallenge(input); {
		case err == nil:
			return
		case errors.Is(err, ring.ErrPhraseMismatch):
			fmt.Println("Incorrect phrase. Please try again.")
		default:
			return
		}
	}
}
