package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/wakephrase/wakephrase/internal/alarms"
	"github.com/wakephrase/wakephrase/internal/api"
	"github.com/wakephrase/wakephrase/internal/cli"
	"github.com/wakephrase/wakephrase/internal/cli/alarm"
	"github.com/wakephrase/wakephrase/internal/cli/auth"
	"github.com/wakephrase/wakephrase/internal/cli/profile"
	"github.com/wakephrase/wakephrase/internal/cli/system"
	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/engine"
	"github.com/wakephrase/wakephrase/internal/errors"
	"github.com/wakephrase/wakephrase/internal/logger"
	"github.com/wakephrase/wakephrase/internal/session"
	"github.com/wakephrase/wakephrase/internal/sound"
	"github.com/wakephrase/wakephrase/internal/storage"
	"github.com/wakephrase/wakephrase/internal/timers"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path. A .json suffix selects the JSON backend instead of SQLite." default:"~/.config/wakephrase/wakephrase.db"`
	API     string `help:"Backend base URL." default:"${api_url}"`
	Debug   bool   `help:"Enable verbose logging to stderr."`

	Init   system.InitCmd   `cmd:"" help:"Initialize wakephrase storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Watch  system.WatchCmd  `cmd:"" help:"Stay resident and ring alarms as they fire."`
	Alarm  struct {
		Add    alarm.AddCmd    `cmd:"" help:"Add a new alarm."`
		Edit   alarm.EditCmd   `cmd:"" help:"Edit an existing alarm."`
		Toggle alarm.ToggleCmd `cmd:"" help:"Enable or disable an alarm."`
		Delete alarm.DeleteCmd `cmd:"" help:"Delete an alarm."`
		List   alarm.ListCmd   `cmd:"" help:"List all alarms." default:"1"`
		Next   alarm.NextCmd   `cmd:"" help:"Show the next upcoming alarm."`
	} `cmd:"" help:"Manage alarms."`
	Register auth.RegisterCmd `cmd:"" help:"Create a backend account."`
	Login    auth.LoginCmd    `cmd:"" help:"Log in to the backend."`
	Logout   auth.LogoutCmd   `cmd:"" help:"Log out and clear the stored identity."`
	Profile  struct {
		Set  profile.SetCmd  `cmd:"" help:"Save the profile used for challenge phrases."`
		Show profile.ShowCmd `cmd:"" help:"Show the cached profile."`
	} `cmd:"" help:"Manage the wake-phrase profile."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Alarm clock with phrase-challenge dismissal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"api_url": constants.DefaultAPIURL,
		},
	)

	configPath := expandPath(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(configPath)}); err != nil {
		errors.Fatal(err)
	}

	var local storage.Provider
	if strings.HasSuffix(configPath, ".json") {
		local = storage.NewJSONStore(configPath)
	} else {
		local = storage.NewSQLiteStore(configPath)
	}

	// Init handles its own storage lifecycle; everything else needs it loaded.
	needsStorage := ctx.Selected() != nil && ctx.Selected().Name != "init"
	if needsStorage {
		errors.Fatal(local.Load())
	}

	sess := session.New(local)
	client := api.NewClient(CLI.API, sess)
	registry := timers.NewLocal()
	eng := engine.New(registry)
	store := alarms.NewStore(client, local, eng)
	if needsStorage {
		store.LoadCached()
	}

	appCtx := &cli.Context{
		Local:    local,
		Session:  sess,
		API:      client,
		Registry: registry,
		Engine:   eng,
		Store:    store,
		Sound:    sound.NewController(sound.Open),
	}

	err := ctx.Run(appCtx)
	registry.Close()
	if closeErr := local.Close(); err == nil {
		err = closeErr
	}
	errors.Fatal(err)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
