// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	driverName string
	chipName   string
	serialPin  int
	clockPin   int
	latchPin   int
	registers  int
	clockDelay time.Duration

	// effective configuration, after flags are applied
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shiftreg",
	Short: "Drive the outputs of a shift register chain",
	Long: `Drive the parallel outputs of a chain of 74HC595 style shift registers
by bit-banging the serial, clock and latch lines.

The chain is described by a YAML config file, and any of its settings can be
overridden by flags.

Examples:
  shiftreg set 0=high 9=high                 # Drive outputs 0 and 9 high
  shiftreg fill high                         # Drive all outputs high
  shiftreg --driver sim -n 4 chase           # Walk a bit across a simulated chain
  shiftreg init-config shiftreg.yaml         # Write a default config`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "shiftreg.yaml", "path to config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&driverName, "driver", "d", config.DriverChardev, "driver: gpiocdev | periph | sim")
	pf.StringVar(&chipName, "chip", "gpiochip0", "gpiochip for the gpiocdev driver")
	pf.IntVar(&serialPin, "serial", 17, "serial data pin")
	pf.IntVar(&clockPin, "clock", 27, "shift clock pin")
	pf.IntVar(&latchPin, "latch", 22, "latch pin")
	pf.IntVarP(&registers, "registers", "n", 2, "number of registers in the chain")
	pf.DurationVar(&clockDelay, "clock-delay", 0, "delay after each line transition")
}

// loadConfig loads the config file, if any, and applies any flags explicitly
// set on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	flags := cmd.Flags()
	c, err := config.Load(configPath)
	if err != nil {
		// only the default config file is optional
		if flags.Changed("config") || !os.IsNotExist(err) {
			return errors.Wrapf(err, "load config %s", configPath)
		}
		log.Debug().Str("path", configPath).Msg("no config file; using defaults")
		c = config.Default()
	}
	if flags.Changed("driver") {
		c.Driver = driverName
	}
	if flags.Changed("chip") {
		c.Chip = chipName
	}
	if flags.Changed("serial") {
		c.Pins.Serial = serialPin
	}
	if flags.Changed("clock") {
		c.Pins.Clock = clockPin
	}
	if flags.Changed("latch") {
		c.Pins.Latch = latchPin
	}
	if flags.Changed("registers") {
		c.Registers = registers
	}
	if flags.Changed("clock-delay") {
		c.ClockDelay = clockDelay
	}
	cfg = c
	log.Debug().
		Str("driver", c.Driver).
		Str("chip", c.Chip).
		Int("serial", c.Pins.Serial).
		Int("clock", c.Pins.Clock).
		Int("latch", c.Pins.Latch).
		Int("registers", c.Registers).
		Dur("clock_delay", c.ClockDelay).
		Msg("config")
	return nil
}
