package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/logger"
)

type RegisterCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Account password." required:""`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.API.Register(context.Background(), c.Email, c.Password)
	if err != nil {
		return err
	}
	if err := ctx.Session.SetUser(userID); err != nil {
		return fmt.Errorf("registered but failed to store identity: %w", err)
	}
	fmt.Println("✓ Registered and logged in")
	return nil
}

type LoginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Account password." required:""`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	result, err := ctx.API.Login(context.Background(), c.Email, c.Password)
	if err != nil {
		return err
	}
	if err := ctx.Session.SetUser(result.UserID); err != nil {
		return fmt.Errorf("logged in but failed to store identity: %w", err)
	}

	// The backend bundles cached state with the login response; seed the
	// local snapshot so the app works before the first explicit refresh.
	if result.Profile != nil {
		if raw, err := json.Marshal(result.Profile); err == nil {
			if err := ctx.Local.Set(constants.StorageKeyProfile, string(raw)); err != nil {
				logger.Warn("Failed to cache profile", "error", err)
			}
		}
	}
	if len(result.Alarms) > 0 {
		ctx.Store.ReplaceAll(result.Alarms)
	}

	fmt.Println("✓ Logged in")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Clear(); err != nil {
		return err
	}
	if err := ctx.Local.Delete(constants.StorageKeyProfile); err != nil {
		logger.Warn("Failed to clear cached profile", "error", err)
	}
	fmt.Println("✓ Logged out")
	return nil
}
