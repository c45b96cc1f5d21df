// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg"
)

var fillCmd = &cobra.Command{
	Use:   "fill <level>",
	Short: "Drive all outputs to a level",
	Args:  cobra.ExactArgs(1),
	RunE:  runFill,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drive all outputs low",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fill(shiftreg.Low)
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(clearCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	l, err := parseLevel(args[0])
	if err != nil {
		return err
	}
	return fill(l)
}

func fill(l shiftreg.Level) error {
	c, release, err := openChain()
	if err != nil {
		return err
	}
	defer release()

	if l == shiftreg.Low {
		c.Clear()
	} else {
		c.SetAll(l)
	}
	return transmit(c)
}
