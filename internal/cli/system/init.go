package system

import (
	"fmt"
	"os"

	"github.com/wakephrase/wakephrase/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing storage before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path := ctx.Local.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Local.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Local.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized wakephrase storage at: %s\n", ctx.Local.GetConfigPath())
	return nil
}
