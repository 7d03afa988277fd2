package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/store"
	"github.com/pawfocus/pawfocus/internal/timer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent focus phases and reward grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		grantsOnly, _ := cmd.Flags().GetBool("grants")

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		events := e.backend.EventRepo()
		out := cmd.OutOrStdout()

		if grantsOnly {
			grants, err := events.QueryGrants(ctx, e.profileID, store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query grants: %w", err)
			}
			if len(grants) == 0 {
				fmt.Fprintln(out, "No rewards granted yet.")
				return nil
			}
			fmt.Fprintf(out, "%-19s  %-10s  %-9s  %5s  %s\n", "Timestamp", "Source", "Levels", "Coins", "Accessories")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, g := range grants {
				levels := make([]string, len(g.Levels))
				for i, l := range g.Levels {
					levels[i] = fmt.Sprint(l)
				}
				fmt.Fprintf(out, "%-19s  %-10s  %-9s  %5d  %s\n",
					g.GrantedAt.Local().Format("2006-01-02 15:04:05"),
					g.Source,
					strings.Join(levels, ","),
					g.Coins,
					strings.Join(g.Accessories, ", "),
				)
			}
			return nil
		}

		sessions, err := events.QueryFocusSessions(ctx, e.profileID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query focus sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No focus sessions found.")
			return nil
		}
		fmt.Fprintf(out, "%-19s  %-11s  %6s  %5s  %6s  %s\n", "Timestamp", "Phase", "Length", "Cycle", "Points", "Skipped")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, s := range sessions {
			skipped := ""
			if s.Skipped {
				skipped = "✗"
			}
			fmt.Fprintf(out, "%-19s  %-11s  %3d:%02d  %5d  %6d  %s\n",
				s.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				timer.Phase(s.Phase).DisplayName(),
				s.Seconds/60, s.Seconds%60,
				s.Cycle,
				s.PointsAwarded,
				skipped,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().Bool("grants", false, "List reward grants instead of focus phases")
}
