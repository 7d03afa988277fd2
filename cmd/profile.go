package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/progression"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show level, points, coins and accessories",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.svc.Load(ctx, e.profileID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		totals, err := e.backend.EventRepo().FocusTotals(ctx, e.profileID)
		if err != nil {
			return fmt.Errorf("query focus totals: %w", err)
		}

		out := cmd.OutOrStdout()
		printProfile(out, e.svc.Engine(), e.profileID, p)
		fmt.Fprintf(out, "Focus:       %d phases, %d minutes\n", totals.WorkPhases, totals.FocusMinutes)
		return nil
	},
}

func printProfile(out io.Writer, engine *progression.Engine, id string, p progression.Profile) {
	earned, span := engine.NextLevelProgress(p.Points)
	owned := "none"
	if len(p.Owned) > 0 {
		owned = strings.Join(p.Owned.Sorted(), ", ")
	}

	fmt.Fprintf(out, "Profile:     %s\n", id)
	fmt.Fprintf(out, "Level:       %d (%d/%d to next)\n", p.Level, earned, span)
	fmt.Fprintf(out, "Points:      %d\n", p.Points)
	fmt.Fprintf(out, "Coins:       %d\n", p.Coins)
	fmt.Fprintf(out, "Accessories: %s\n", owned)
}

func printResult(out io.Writer, res progression.Result) {
	fmt.Fprintf(out, "Points: %d -> %d\n", res.Before.Points, res.After.Points)
	fmt.Fprintf(out, "Level:  %d -> %d\n", res.Before.Level, res.After.Level)
	fmt.Fprintln(out, res.Summary.String())
}

