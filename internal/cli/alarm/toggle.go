package alarm

import (
	"context"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
)

type ToggleCmd struct {
	ID string `arg:"" help:"Alarm id (or unambiguous prefix)."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	alarm, err := cli.ResolveAlarm(ctx, c.ID)
	if err != nil {
		return err
	}

	toggled, err := ctx.Store.Toggle(context.Background(), alarm.ID)
	if err := cli.WarnIfRemote(err); err != nil {
		return err
	}

	state := "off"
	if toggled.IsActive {
		state = "on"
	}
	fmt.Printf("✓ Alarm %s turned %s\n", toggled.Label, state)
	return nil
}
