package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/models"
)

type SetCmd struct {
	Name  string `help:"Display name." required:""`
	Goals string `help:"Comma-separated goals the phrases should affirm." required:""`
	Fears string `help:"Comma-separated fears the phrases may invoke." required:""`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	p := models.Profile{
		Name:  strings.TrimSpace(c.Name),
		Goals: splitList(c.Goals),
		Fears: splitList(c.Fears),
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if err := ctx.API.SaveProfile(context.Background(), p); err != nil {
		return err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := ctx.Local.Set(constants.StorageKeyProfile, string(raw)); err != nil {
			logger.Warn("Failed to cache profile", "error", err)
		}
	}

	fmt.Println("✓ Profile saved")
	return nil
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	raw, ok, err := ctx.Local.Get(constants.StorageKeyProfile)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No profile cached. Run 'wakephrase profile set' first.")
		return nil
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return fmt.Errorf("cached profile is corrupt: %w", err)
	}

	fmt.Printf("Name:  %s\n", p.Name)
	fmt.Printf("Goals: %s\n", strings.Join(p.Goals, ", "))
	fmt.Printf("Fears: %s\n", strings.Join(p.Fears, ", "))
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
