package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"charsheet/pkg/actor"
	"charsheet/pkg/store"
)

func newOverridesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overrides",
		Short: "List the stored field layouts of the actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			act, err := actor.Load(a.actorPath)
			if err != nil {
				return err
			}
			return a.listOverrides(ctx, act.ID)
		},
	}
}

func (a *app) listOverrides(ctx context.Context, entityID string) error {
	st, err := store.Open(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	overrides, err := st.List(ctx, entityID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLEFT\tTOP\tWIDTH\tHEIGHT")
	for _, key := range store.SortedKeys(overrides) {
		g := overrides[key]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", key, g.Left, g.Top, g.Width, g.Height)
	}
	return w.Flush()
}
