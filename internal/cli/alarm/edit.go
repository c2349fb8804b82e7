package alarm

import (
	"context"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

type EditCmd struct {
	ID    string  `arg:"" help:"Alarm id (or unambiguous prefix)."`
	Time  *string `help:"New time (HH:MM, 24-hour)."`
	Label *string `help:"New display label."`
	Days  *string `help:"New comma-separated weekdays. Pass '' for one-shot."`
	Sound *string `help:"New WAV tone path. Pass '' for the default tone."`
}

func (c *EditCmd) Validate() error {
	if c.Time == nil && c.Label == nil && c.Days == nil && c.Sound == nil {
		return fmt.Errorf("nothing to change")
	}
	if c.Time != nil {
		if _, _, err := timeutil.ParseClock(*c.Time); err != nil {
			return err
		}
	}
	if c.Days != nil {
		if _, err := cli.ParseDays(*c.Days); err != nil {
			return err
		}
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	alarm, err := cli.ResolveAlarm(ctx, c.ID)
	if err != nil {
		return err
	}

	if c.Time != nil {
		alarm.Time = *c.Time
	}
	if c.Label != nil {
		alarm.Label = *c.Label
	}
	if c.Days != nil {
		days, err := cli.ParseDays(*c.Days)
		if err != nil {
			return err
		}
		alarm.Days = days
	}
	if c.Sound != nil {
		alarm.Sound = *c.Sound
	}

	// Edit re-derives the timer registrations from scratch inside Save.
	saved, err := ctx.Store.Save(context.Background(), alarm)
	if err := cli.WarnIfRemote(err); err != nil {
		return err
	}

	fmt.Printf("✓ Alarm updated: %s at %s (%s)\n", saved.Label, saved.Time, saved.FormatDays())
	return nil
}
