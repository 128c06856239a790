package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"charsheet/pkg/actor"
	"charsheet/pkg/config"
)

func newActorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Create and inspect actor files",
	}

	var class, owner string
	newCmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Write a level 1 actor to --actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := actor.Class(class)
			if actor.MaxLevel(c) == 0 {
				return fmt.Errorf("unknown class %q", class)
			}
			act := actor.New(args[0], owner, c)
			if err := act.Save(a.actorPath); err != nil {
				return err
			}
			fmt.Fprintln(a.out, act.ID)
			return nil
		},
	}
	newCmd.Flags().StringVar(&class, "class", string(actor.ClassFighter), "character class")
	newCmd.Flags().StringVar(&owner, "owner", "", "owning user id")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the actor's level, saves and next level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := actor.Load(a.actorPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%s %d) xp=%d\n", act.Name, act.Class, act.Level, act.XP)
			saves := act.Saves()
			for _, s := range actor.SaveOrder {
				fmt.Fprintf(a.out, "  %-10s %d\n", s, saves[s])
			}
			if next, ok := actor.NextLevelXP(act.Class, act.Level); ok {
				fmt.Fprintf(a.out, "  next level at %d xp\n", next)
			}
			return nil
		},
	}

	cmd.AddCommand(newCmd, showCmd)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage charsheet.toml",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to --config",
		Long: "Writes the configuration read from --config, with " + config.EnvPrefix +
			"* environment overrides applied, back to --config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cfg.Write(a.configPath)
		},
	})
	return cmd
}
