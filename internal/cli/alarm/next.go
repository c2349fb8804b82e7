package alarm

import (
	"context"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
)

type NextCmd struct {
	Refresh bool `help:"Re-fetch the alarm list from the backend first."`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	if c.Refresh {
		if _, err := ctx.Store.Load(context.Background()); err != nil {
			return err
		}
	}
	fmt.Println(ctx.Engine.NextOccurrence(ctx.Store.Alarms()))
	return nil
}
