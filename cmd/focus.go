package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/timer"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Start a focus session",
	Long: `Start a focus session in the TUI.

With --headless the timer runs in the terminal without the TUI, starting
each phase automatically and printing progress until interrupted or until
--cycles work phases have completed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		if !headless {
			return runApp(cmd, true)
		}

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		cycles, _ := cmd.Flags().GetInt("cycles")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := timer.New(e.cfg.Durations())
		return runHeadless(ctx, cmd.OutOrStdout(), engine, e.svc, e.profileID, cycles, time.Second)
	},
}

func init() {
	focusCmd.Flags().Bool("headless", false, "Run the timer without the TUI")
	focusCmd.Flags().Int("cycles", 0, "Stop after this many completed work phases (0 = run until interrupted)")
}

// runHeadless drives engine with a ticker, records every finished phase
// through svc and auto-starts the next one. It returns when ctx is done or
// cycles work phases have completed.
func runHeadless(ctx context.Context, out io.Writer, engine *timer.Engine, svc *progression.Service, profileID string, cycles int, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	profile, err := svc.Load(ctx, profileID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	fmt.Fprintf(out, "Profile %s: level %d, %d points, %d coins\n", profileID, profile.Level, profile.Points, profile.Coins)

	events := engine.Subscribe(16)
	done := make(chan struct{})
	go func() {
		engine.Run(ctx, interval)
		close(done)
	}()

	engine.Start()
	announce(out, engine.Snapshot())

	completedWork := 0
	for ev := range events {
		if ev.Type != timer.EventPhaseCompleted || ev.Completed == nil {
			continue
		}
		c := *ev.Completed
		// Persist with a fresh context so an interrupt mid-write still saves.
		res, err := svc.RecordFocus(context.WithoutCancel(ctx), profileID, c)
		if err != nil {
			cancel()
			<-done
			return fmt.Errorf("record phase: %w", err)
		}
		fmt.Fprintf(out, "%s finished. %d points total.\n", c.Phase.DisplayName(), res.After.Points)
		if res.LeveledUp() {
			fmt.Fprintf(out, "★ %s\n", res.Summary)
		}

		if c.Phase == timer.PhaseWork && !c.Skipped {
			completedWork++
		}
		if cycles > 0 && completedWork >= cycles {
			cancel()
			continue
		}
		engine.Start()
		announce(out, engine.Snapshot())
	}
	<-done

	if grants := svc.SessionGrants(); len(grants) > 0 {
		fmt.Fprintf(out, "Session rewards: %d grant(s)\n", len(grants))
		for _, s := range grants {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}
	return nil
}

func announce(out io.Writer, snap timer.Snapshot) {
	fmt.Fprintf(out, "%s started (%s)\n", snap.Phase.DisplayName(), snap.Clock())
}
