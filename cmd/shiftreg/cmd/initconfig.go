// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "Write a config file",
	Long: `Write a config file describing the chain, populated from the defaults
and any flags set on the command line.`,
	Args: cobra.ExactArgs(1),
	RunE: runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	log.Info().Str("path", args[0]).Msg("config written")
	return nil
}
