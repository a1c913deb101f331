package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"grid-planner/internal/tui"
	"grid-planner/pathfind"
)

func newViewCmd() *cobra.Command {
	var (
		flags gridFlags
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Animate the search in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := flags.load(cfg, log)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init screen: %w", err)
			}
			defer screen.Fini()

			a := tui.New(screen, p.grid, delay)
			_, err = a.Run(ctx, p.start, p.goal, pathfind.WithHeuristic(p.heuristic))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			a.WaitForKey(ctx)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&delay, "delay", 50*time.Millisecond, "Pause after each drawn step")
	return cmd
}
