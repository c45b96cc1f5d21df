// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cmd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-shiftreg"
	"github.com/warthog618/go-shiftreg/chardev"
	"github.com/warthog618/go-shiftreg/internal/config"
	"github.com/warthog618/go-shiftreg/periph"
	"github.com/warthog618/go-shiftreg/shiftregtest"
)

// simModel is the simulated hardware used by the sim driver.
var simModel *shiftregtest.Model

// openChain constructs the chain described by cfg.
//
// The returned function releases the driver.
func openChain() (*shiftreg.Chain, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	simModel = nil
	p := cfg.Pins
	var (
		d       shiftreg.Driver
		release = func() {}
	)
	switch cfg.Driver {
	case config.DriverChardev:
		cd, err := chardev.New(cfg.Chip)
		if err != nil {
			return nil, nil, err
		}
		d = cd
		release = func() {
			if err := cd.Close(); err != nil {
				log.Warn().Err(err).Str("chip", cfg.Chip).Msg("close failed")
			}
		}
	case config.DriverPeriph:
		if err := periph.Init(); err != nil {
			return nil, nil, err
		}
		// gpioreg resolves pins by number as well as by name
		pd, err := periph.ByName(strconv.Itoa(p.Serial), strconv.Itoa(p.Clock), strconv.Itoa(p.Latch))
		if err != nil {
			return nil, nil, err
		}
		d = pd
	case config.DriverSim:
		simModel = shiftregtest.NewModel(p.Serial, p.Clock, p.Latch, cfg.Registers)
		d = simModel
	}
	c, err := shiftreg.New(d, p.Serial, p.Clock, p.Latch, cfg.Registers,
		shiftreg.WithClockDelay(cfg.ClockDelay),
		shiftreg.WithLogger(log.Logger))
	if err != nil {
		release()
		return nil, nil, err
	}
	return c, release, nil
}

// transmit writes the chain buffer to the hardware.
func transmit(c *shiftreg.Chain) error {
	if err := c.Transmit(); err != nil {
		return err
	}
	reportSim()
	return nil
}

// reportSim logs the outputs of the simulated chain.
func reportSim() {
	if simModel == nil {
		return
	}
	log.Info().
		Hex("outputs", simModel.Outputs()).
		Int("latches", simModel.Latches()).
		Msg("sim")
}

// parseLevel converts a level name to a Level.
func parseLevel(s string) (shiftreg.Level, error) {
	switch strings.ToLower(s) {
	case "high", "h", "on", "1", "true":
		return shiftreg.High, nil
	case "low", "l", "off", "0", "false":
		return shiftreg.Low, nil
	}
	return shiftreg.Low, errors.Errorf("invalid level '%s'", s)
}

// parseAssignment parses an "index=level" pair.
func parseAssignment(s string) (int, shiftreg.Level, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return 0, shiftreg.Low, errors.Errorf("invalid assignment '%s', expected index=level", s)
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, shiftreg.Low, errors.Wrapf(err, "invalid index in '%s'", s)
	}
	l, err := parseLevel(parts[1])
	if err != nil {
		return 0, shiftreg.Low, err
	}
	return index, l, nil
}
