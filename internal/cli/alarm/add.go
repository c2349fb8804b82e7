package alarm

import (
	"context"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

type AddCmd struct {
	Time  string `arg:"" help:"Alarm time (HH:MM, 24-hour)."`
	Label string `help:"Display label." default:""`
	Days  string `help:"Comma-separated weekdays (e.g. mon,wed,fri). Empty for a one-shot alarm."`
	Sound string `help:"Path to a WAV tone. Empty for the default tone."`
	Off   bool   `help:"Create the alarm disabled."`
}

func (c *AddCmd) Validate() error {
	if _, _, err := timeutil.ParseClock(c.Time); err != nil {
		return err
	}
	_, err := cli.ParseDays(c.Days)
	return err
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	days, err := cli.ParseDays(c.Days)
	if err != nil {
		return err
	}

	saved, err := ctx.Store.Save(context.Background(), models.Alarm{
		Time:     c.Time,
		Label:    c.Label,
		Days:     days,
		IsActive: !c.Off,
		Sound:    c.Sound,
	})
	if err := cli.WarnIfRemote(err); err != nil {
		return err
	}

	fmt.Printf("✓ Alarm added: %s at %s (%s)\n", saved.Label, saved.Time, saved.FormatDays())
	fmt.Println(ctx.Engine.NextOccurrence(ctx.Store.Alarms()))
	return nil
}
