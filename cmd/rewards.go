package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/progression"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Print what each level grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		upTo, _ := cmd.Flags().GetInt("up-to")
		if upTo < 2 {
			return fmt.Errorf("--up-to must be at least 2, got %d", upTo)
		}
		printRewardTable(cmd.OutOrStdout(), progression.NewEngine(cfg.Rules()), upTo)
		return nil
	},
}

func init() {
	rewardsCmd.Flags().Int("up-to", 10, "Highest level to show")
}

func printRewardTable(out io.Writer, engine *progression.Engine, upTo int) {
	fmt.Fprintf(out, "%-6s  %7s  %6s  %s\n", "Level", "Points", "Coins", "Rewards")
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for level := 2; level <= upTo; level++ {
		r := engine.RewardForLevel(level)
		var extras []string
		if len(r.AccessoryIDs) > 0 {
			extras = append(extras, strings.Join(r.AccessoryIDs, ", "))
		}
		if r.ExtraPoints > 0 {
			extras = append(extras, fmt.Sprintf("+%d bonus points", r.ExtraPoints))
		}
		if r.ExtraStudyTimeMin > 0 {
			extras = append(extras, fmt.Sprintf("+%d study min", r.ExtraStudyTimeMin))
		}
		fmt.Fprintf(out, "%-6d  %7d  %6d  %s\n", level, engine.PointsForLevel(level), r.Coins, strings.Join(extras, "; "))
	}
}
