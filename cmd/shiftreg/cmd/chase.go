// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg"
)

var (
	chaseInterval time.Duration
	chaseCycles   int
)

var chaseCmd = &cobra.Command{
	Use:   "chase",
	Short: "Walk a single high output along the chain",
	Long: `Walk a single high output along the chain, one step per interval,
until interrupted or the requested number of cycles completes.
All outputs are driven low on exit.

Examples:
  shiftreg chase --interval 50ms
  shiftreg chase --cycles 3`,
	Args: cobra.NoArgs,
	RunE: runChase,
}

func init() {
	rootCmd.AddCommand(chaseCmd)

	chaseCmd.Flags().DurationVarP(&chaseInterval, "interval", "i", 100*time.Millisecond,
		"time between steps")
	chaseCmd.Flags().IntVar(&chaseCycles, "cycles", 0,
		"number of passes along the chain (0 runs until interrupted)")
}

func runChase(cmd *cobra.Command, args []string) error {
	if chaseInterval <= 0 {
		return errors.Errorf("interval must be positive, got %s", chaseInterval)
	}
	c, release, err := openChain()
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(chaseInterval)
	defer ticker.Stop()

	steps := chaseCycles * c.NumPins()
	for step := 0; steps == 0 || step < steps; step++ {
		c.Clear()
		c.SetPin(step%c.NumPins(), shiftreg.High)
		if _, err := c.Flush(); err != nil {
			return err
		}
		reportSim()
		select {
		case <-ctx.Done():
			log.Info().Int("step", step).Msg("interrupted")
			steps = step + 1
		case <-ticker.C:
		}
	}
	c.Clear()
	return transmit(c)
}
