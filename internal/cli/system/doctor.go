package system

import (
	"context"
	"fmt"
	"time"

	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: local storage reachable
	if err := ctx.Local.Load(); err != nil {
		fmt.Printf("❌ Local storage: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local storage: OK (%s)\n", ctx.Local.GetConfigPath())
	}

	// Check 2: identity present
	if userID, err := ctx.Session.Current(); err != nil {
		fmt.Printf("⚠ Identity: not logged in\n")
	} else {
		fmt.Printf("✓ Identity: OK (%s)\n", userID)
	}

	// Check 3: OS keyring
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: unavailable, identity falls back to local storage\n")
	}

	// Check 4: backend reachable (only meaningful when logged in)
	if ctx.Session.LoggedIn() {
		checkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := ctx.API.FetchAlarms(checkCtx); err != nil {
			fmt.Printf("⚠ Backend: unreachable, reads fall back to the local snapshot\n   Error: %v\n", err)
		} else {
			fmt.Printf("✓ Backend: OK\n")
		}
	} else {
		fmt.Printf("⊘ Backend: SKIPPED (not logged in)\n")
	}

	// Check 5: alarm snapshot parses
	if _, ok, err := ctx.Local.Get(constants.StorageKeyAlarms); err != nil {
		fmt.Printf("❌ Alarm snapshot: FAIL\n   Error: %v\n", err)
		hasError = true
	} else if !ok {
		fmt.Printf("⚠ Alarm snapshot: none stored yet\n")
	} else {
		fmt.Printf("✓ Alarm snapshot: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
