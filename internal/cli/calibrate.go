package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newCalibrateCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit and print the tab strip models of the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.openSheet(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			results := s.Recalibrate(force)
			ids := make([]string, 0, len(results))
			for id := range results {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				r := results[id]
				fmt.Fprintf(a.out, "%s source=%s placed=%d base_top=%.2f step_top=%.2f base_left=%.2f step_left=%.2f\n",
					id, r.Source, r.Placed, r.Model.BaseTop, r.Model.StepTop, r.Model.BaseLeft, r.Model.StepLeft)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-fit models already stored on the sheet")
	return cmd
}
