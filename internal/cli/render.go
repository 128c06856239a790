package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var output, htmlOut string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sheet with its stored layout to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := a.openSheet(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := s.RenderPNG(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			if htmlOut != "" {
				if err := os.WriteFile(htmlOut, []byte(s.Root().SerializeOuter()), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", htmlOut, err)
				}
			}
			loggerFromContext(ctx).Info("sheet rendered", "png", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sheet.png", "PNG output path")
	cmd.Flags().StringVar(&htmlOut, "html", "", "also write the laid-out markup to this path")
	return cmd
}
