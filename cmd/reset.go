package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the profile and its history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		profile, _ := cmd.Flags().GetString("profile")
		if !yes {
			return fmt.Errorf("refusing to delete profile %q without --yes", profile)
		}

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Reset(cmd.Context(), e.profileID); err != nil {
			return fmt.Errorf("reset profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile %s reset.\n", e.profileID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
