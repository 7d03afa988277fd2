package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/progression"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Award points or repair rewards",
}

var pointsAddCmd = &cobra.Command{
	Use:   "add <n>",
	Short: "Award n points and grant any level rewards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid point amount %q: %w", args[0], err)
		}

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.AwardPoints(cmd.Context(), e.profileID, n, progression.SourceManual)
		if err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var pointsReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Grant any rewards the profile's level is owed",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.Reconcile(cmd.Context(), e.profileID)
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	pointsCmd.AddCommand(pointsAddCmd)
	pointsCmd.AddCommand(pointsReconcileCmd)
}
