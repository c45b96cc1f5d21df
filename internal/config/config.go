// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
	"gopkg.in/yaml.v3"
)

// Supported drivers.
const (
	DriverChardev = "gpiocdev"
	DriverPeriph  = "periph"
	DriverSim     = "sim"
)

// Pins identifies the lines driving the chain.
type Pins struct {
	Serial int `yaml:"serial"`
	Clock  int `yaml:"clock"`
	Latch  int `yaml:"latch"`
}

// Config describes a chain and the driver used to access its lines.
type Config struct {
	// One of DriverChardev, DriverPeriph or DriverSim.
	Driver string `yaml:"driver"`

	// The gpiochip containing the lines, e.g. gpiochip0.
	// Only used by DriverChardev.
	Chip string `yaml:"chip,omitempty"`

	Pins       Pins          `yaml:"pins"`
	Registers  int           `yaml:"registers"`
	ClockDelay time.Duration `yaml:"clock_delay,omitempty"`
}

// Default returns the configuration for a pair of registers on the usual
// Raspberry Pi lines.
func Default() *Config {
	return &Config{
		Driver:    DriverChardev,
		Chip:      "gpiochip0",
		Pins:      Pins{Serial: 17, Clock: 27, Latch: 22},
		Registers: 2,
	}
}

// Load reads the configuration from the YAML file.
//
// Fields missing from the file take their values from Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return c, nil
}

// Save writes the configuration to the YAML file.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks the configuration describes a chain that can be
// constructed.
//
// Returns an error wrapping shiftreg.ErrConfiguration if not.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverChardev:
		if c.Chip == "" {
			return errors.Wrap(shiftreg.ErrConfiguration, "gpiocdev driver requires a chip")
		}
	case DriverPeriph, DriverSim:
	default:
		return errors.Wrapf(shiftreg.ErrConfiguration, "unknown driver '%s'", c.Driver)
	}
	if c.Registers < 1 || c.Registers > shiftreg.MaxRegisters {
		return errors.Wrapf(shiftreg.ErrConfiguration, "register count %d not in range 1..%d", c.Registers, shiftreg.MaxRegisters)
	}
	p := c.Pins
	if p.Serial < 0 || p.Clock < 0 || p.Latch < 0 {
		return errors.Wrapf(shiftreg.ErrConfiguration, "negative pin in %+v", p)
	}
	if p.Serial == p.Clock || p.Serial == p.Latch || p.Clock == p.Latch {
		return errors.Wrapf(shiftreg.ErrConfiguration, "pins must be distinct: %+v", p)
	}
	if c.ClockDelay < 0 {
		return errors.Wrapf(shiftreg.ErrConfiguration, "negative clock delay %s", c.ClockDelay)
	}
	return nil
}
