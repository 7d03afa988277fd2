package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "pawfocus",
	Short:        "Pomodoro timer with a cat that levels up",
	Long:         "PawFocus is a terminal study companion: focus in Pomodoro phases, earn points, level up and dress up your cat.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides PAWFOCUS_DB env var)")
	flags.String("config", "", "Path to config file (overrides PAWFOCUS_CONFIG env var)")
	flags.String("profile", "default", "Profile id to play as")
	flags.String("store", "", "Storage driver: sqlite, firestore or memory (overrides PAWFOCUS_DATASTORE)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(rewardsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
