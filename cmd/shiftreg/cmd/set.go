// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg"
)

var setCmd = &cobra.Command{
	Use:   "set <index>=<level>...",
	Short: "Set outputs and transmit",
	Long: `Set the level of one or more outputs, then transmit the chain.
All other outputs are driven low.

Levels may be high, low, on, off, 1 or 0.

Examples:
  shiftreg set 0=high 7=1 15=on`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	type assignment struct {
		index int
		level shiftreg.Level
	}
	aa := make([]assignment, 0, len(args))
	for _, a := range args {
		index, l, err := parseAssignment(a)
		if err != nil {
			return err
		}
		aa = append(aa, assignment{index, l})
	}

	c, release, err := openChain()
	if err != nil {
		return err
	}
	defer release()

	for _, a := range aa {
		if err := c.SetPin(a.index, a.level); err != nil {
			return err
		}
		log.Debug().Int("index", a.index).Stringer("level", a.level).Msg("set")
	}
	return transmit(c)
}
