package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"charsheet/pkg/editor"
	"charsheet/pkg/geom"
	"charsheet/pkg/html"
	"charsheet/pkg/sheet"
)

// openSession renders the sheet and opens a session on the field stored
// under key.
func openSession(s *sheet.Sheet, key string, user sheet.User) (*editor.Session, error) {
	var target *html.Node
	for _, n := range editor.Fields(s.Root()) {
		if editor.ClassifyNode(n).Key == key {
			target = n
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no field %q on this sheet", key)
	}
	sess := s.Trigger(target, user)
	if sess == nil {
		return nil, fmt.Errorf("user %q may not edit this sheet in %s mode", user.ID, s.Mode())
	}
	return sess, nil
}

// parseSet reads "field=value" assignments.
func parseSet(assignments []string) (map[geom.Field]int, error) {
	out := make(map[geom.Field]int, len(assignments))
	for _, as := range assignments {
		name, raw, ok := strings.Cut(as, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want field=value", as)
		}
		f := geom.Field(strings.TrimSpace(name))
		known := false
		for _, k := range geom.Fields {
			known = known || k == f
		}
		if !known {
			return nil, fmt.Errorf("--set %q: unknown field %q", as, name)
		}
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(raw, "px")))
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", as, err)
		}
		out[f] = v
	}
	return out, nil
}

func formatGeometry(g geom.Geometry) string {
	return fmt.Sprintf("left=%d top=%d width=%d height=%d", g.Left, g.Top, g.Width, g.Height)
}

func newNudgeCmd(a *app) *cobra.Command {
	var (
		set    []string
		cancel bool
	)

	cmd := &cobra.Command{
		Use:   "nudge KEY [KEYPRESS...]",
		Short: "Move or resize one field by replaying editor key presses",
		Long: `Opens an editing session on the field stored under KEY (for example
ability-str or pos-armor-class), replays each KEYPRESS (ArrowUp, ArrowDown,
ArrowLeft, ArrowRight, +, -, [, ]) and applies the result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			values, err := parseSet(set)
			if err != nil {
				return err
			}
			s, rec, err := a.openSheet(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := openSession(s, args[0], a.user(s.Actor().OwnerID))
			if err != nil {
				return err
			}
			for f, v := range values {
				sess.SetField(f, v)
			}
			for _, key := range args[1:] {
				if !sess.Press(key) {
					logger.Warn("key not handled", "key", key)
				}
			}
			g := sess.Geometry()
			if cancel {
				sess.Cancel()
			} else {
				sess.Apply()
				if err := lastError(rec); err != nil {
					return err
				}
			}
			fmt.Fprintf(a.out, "%s %s\n", args[0], formatGeometry(g))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&set, "set", nil, "set a field before replaying keys, e.g. --set left=120")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "preview only; do not save")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset KEY",
		Short: "Delete the stored layout of one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, rec, err := a.openSheet(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := openSession(s, args[0], a.user(s.Actor().OwnerID))
			if err != nil {
				return err
			}
			sess.Reset()
			return lastError(rec)
		},
	}
}
