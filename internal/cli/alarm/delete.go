package alarm

import (
	"context"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Alarm id (or unambiguous prefix)."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	alarm, err := cli.ResolveAlarm(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.Delete(context.Background(), alarm.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Alarm deleted: %s at %s\n", alarm.Label, alarm.Time)
	return nil
}
