// Command charsheet-edit is a desktop window for arranging the fields of a
// character sheet. Pick a field, nudge it with the compass or the keyboard,
// then apply, reset or cancel.
package main

import (
	"context"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"charsheet/pkg/actor"
	"charsheet/pkg/config"
	"charsheet/pkg/notify"
	"charsheet/pkg/sheet"
)

func main() {
	var configPath, actorPath, userID string
	var gm, verbose bool

	cmd := &cobra.Command{
		Use:          "charsheet-edit",
		Short:        "Arrange the fields of a character sheet",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Level: cfg.Level()})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			act, err := actor.Load(actorPath)
			if err != nil {
				return err
			}
			user := sheet.User{ID: userID, Privileged: gm}
			if user.ID == "" {
				user.ID = act.OwnerID
			}
			return run(cmd.Context(), cfg, act, user, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "charsheet.toml", "config file")
	cmd.Flags().StringVarP(&actorPath, "actor", "a", "actor.yaml", "actor file")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "acting user id (default: the actor's owner)")
	cmd.Flags().BoolVar(&gm, "gm", false, "act as a privileged user")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, act *actor.Actor, user sheet.User, logger *log.Logger) error {
	ew := newEditorWindow(ctx, app.New(), user, act.Name)
	s, err := sheet.Open(ctx, cfg, act,
		sheet.WithLogger(logger),
		sheet.WithUser(user),
		sheet.WithNotifier(notify.Multi{notify.NewLog(logger), ew.notifier()}),
	)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Render(ctx); err != nil {
		return err
	}
	ew.attach(s, fyne.NewSize(float32(cfg.Viewport.Width)/2, float32(cfg.Viewport.Height)/2))
	ew.window.Resize(fyne.NewSize(1100, 800))
	ew.window.ShowAndRun()
	return nil
}
