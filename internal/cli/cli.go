// Package cli implements the charsheet command-line interface.
//
// # Commands
//
//   - render: lay out a sheet with its stored overrides and paint it to PNG
//   - nudge: open a headless editing session on one field, replay key
//     presses and apply (or cancel) the result
//   - reset: delete one field's override through an editing session
//   - overrides: list stored overrides in natural key order
//   - calibrate: fit and print the tab strip models of a sheet
//   - actor new, config init: scaffolding for the files the others read
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; otherwise the
// level comes from log_level in the config file. The logger travels in the
// command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"charsheet/pkg/actor"
	"charsheet/pkg/config"
	"charsheet/pkg/editor"
	"charsheet/pkg/notify"
	"charsheet/pkg/sheet"
)

// app holds the persistent flags and what PersistentPreRunE loads from them.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	actorPath  string
	userID     string
	gm         bool
	mode       string
	verbose    bool

	cfg config.Config
}

// Execute runs the charsheet CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Command output goes to out, logs
// to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "charsheet",
		Short:         "Render character sheets and edit their field layout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			level := cfg.Level()
			if a.verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(a.errOut, level)))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "charsheet.toml", "config file")
	flags.StringVarP(&a.actorPath, "actor", "a", "actor.yaml", "actor file")
	flags.StringVarP(&a.userID, "user", "u", "", "acting user id (default: the actor's owner)")
	flags.BoolVar(&a.gm, "gm", false, "act as a privileged user")
	flags.StringVar(&a.mode, "mode", editor.ModeView, "sheet mode: view or edit")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newNudgeCmd(a))
	root.AddCommand(newResetCmd(a))
	root.AddCommand(newOverridesCmd(a))
	root.AddCommand(newCalibrateCmd(a))
	root.AddCommand(newActorCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// openSheet loads the actor, opens the configured store and renders the
// sheet. Notifications are logged and also returned for inspection.
func (a *app) openSheet(ctx context.Context) (*sheet.Sheet, *notify.Recorder, error) {
	logger := loggerFromContext(ctx)
	act, err := actor.Load(a.actorPath)
	if err != nil {
		return nil, nil, err
	}
	rec := &notify.Recorder{}
	s, err := sheet.Open(ctx, a.cfg, act,
		sheet.WithLogger(logger),
		sheet.WithNotifier(notify.Multi{notify.NewLog(logger), rec}),
		sheet.WithUser(a.user(act.OwnerID)),
		sheet.WithMode(a.mode),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Render(ctx); err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("render %s: %w", act.Name, err)
	}
	logger.Debug("sheet rendered", "actor", act.ID, "driver", a.cfg.Store.Driver)
	return s, rec, nil
}

// user is the acting user: --user, or the sheet owner.
func (a *app) user(ownerID string) sheet.User {
	u := sheet.User{ID: a.userID, Privileged: a.gm}
	if u.ID == "" {
		u.ID = ownerID
	}
	return u
}

// lastError returns the last error-level notification as an error.
func lastError(rec *notify.Recorder) error {
	if msg, ok := rec.Last(); ok && msg.Level == notify.LevelError {
		return fmt.Errorf("%s", msg.Text)
	}
	return nil
}
