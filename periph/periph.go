// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package periph provides a shiftreg.Driver for pins provided by periph.io.
//
// Pins are identified by their number, as returned by gpio.PinOut.Number.
package periph

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	// ErrUnknownPin indicates a pin that is not provided by the Driver.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrNotOutput indicates a write to a pin that has not been configured as
	// an output.
	ErrNotOutput = errors.New("pin not configured as output")
)

// Init initialises the periph.io host drivers.
//
// It must be called before ByName if the pins are provided by the host.
func Init() error {
	_, err := host.Init()
	return errors.Wrap(err, "periph host init")
}

// Driver drives a set of periph.io output pins.
type Driver struct {
	pins map[int]gpio.PinOut

	// pins configured as outputs.
	outputs map[int]bool
}

// New creates a Driver for the given pins.
func New(pins ...gpio.PinOut) *Driver {
	d := Driver{
		pins:    make(map[int]gpio.PinOut, len(pins)),
		outputs: make(map[int]bool, len(pins)),
	}
	for _, p := range pins {
		d.pins[p.Number()] = p
	}
	return &d
}

// ByName creates a Driver for the named pins, as found in the gpioreg
// registry, e.g. "GPIO17".
func ByName(names ...string) (*Driver, error) {
	pins := make([]gpio.PinOut, 0, len(names))
	for _, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, errors.Wrapf(ErrUnknownPin, "%s", n)
		}
		pins = append(pins, p)
	}
	return New(pins...), nil
}

// Pin returns the pin with the given number, or nil if the Driver does not
// provide it.
func (d *Driver) Pin(number int) gpio.PinOut {
	return d.pins[number]
}

// ConfigureOutput configures the pin as an output, driven low.
func (d *Driver) ConfigureOutput(number int) error {
	p, ok := d.pins[number]
	if !ok {
		return errors.Wrapf(ErrUnknownPin, "%d", number)
	}
	if err := p.Out(gpio.Low); err != nil {
		return errors.Wrapf(err, "configure %s", p)
	}
	d.outputs[number] = true
	return nil
}

// Write drives the pin to the level.
func (d *Driver) Write(number int, l shiftreg.Level) error {
	if !d.outputs[number] {
		return errors.Wrapf(ErrNotOutput, "%d", number)
	}
	return d.pins[number].Out(gpio.Level(l))
}

// Halt halts all the pins.
func (d *Driver) Halt() error {
	var err error
	for _, p := range d.pins {
		if perr := p.Halt(); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
