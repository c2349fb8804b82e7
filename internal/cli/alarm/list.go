package alarm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/timeutil"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	inactiveStyle = lipgloss.NewStyle().Faint(true)
	nextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type ListCmd struct {
	Refresh bool `help:"Re-fetch the alarm list from the backend first."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if c.Refresh {
		if _, err := ctx.Store.Load(context.Background()); err != nil {
			return err
		}
	}

	list := ctx.Store.Alarms()
	if len(list) == 0 {
		fmt.Println("No alarms set.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-10s %-10s %-20s %-16s %-6s", "ID", "Time", "Label", "Days", "On")))
	for _, a := range list {
		display := a.Time
		if hour, minute, err := timeutil.ParseClock(a.Time); err == nil {
			display = timeutil.FormatDisplay(hour, minute)
		}

		on := "yes"
		if !a.IsActive {
			on = "no"
		}

		label := a.Label
		if len(label) > 18 {
			label = label[:15] + "..."
		}

		line := fmt.Sprintf("%-10s %-10s %-20s %-16s %-6s", shortID(a.ID), display, label, a.FormatDays(), on)
		if !a.IsActive {
			line = inactiveStyle.Render(line)
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println(nextStyle.Render(ctx.Engine.NextOccurrence(list)))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
