// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MaxRegisters is the maximum number of registers supported in a chain.
const MaxRegisters = 25

// Driver provides control of the digital output lines used to drive a chain.
//
// Lines are identified by whatever pin numbering the Driver uses.
type Driver interface {
	// ConfigureOutput configures the pin as an output.
	ConfigureOutput(pin int) error

	// Write drives the pin to the given level.
	Write(pin int, l Level) error
}

// Chain represents a daisy chain of 8-bit shift registers.
//
// Outputs are identified by index, in the range 0..NumPins()-1.
// Output n is bit n%8 of register n/8, and register 0 is the register
// nearest the controller.
type Chain struct {
	d Driver

	// The line feeding serial data into the first register.
	serial int

	// The shift clock line.
	clock int

	// The latch, or storage register clock, line.
	latch int

	// The desired state of the outputs, one byte per register.
	buf []byte

	// Set when buf has been modified since the last Transmit.
	dirty bool

	delay time.Duration

	log zerolog.Logger
}

// builder contains the optional configuration for a chain.
type builder struct {
	delay time.Duration
	log   zerolog.Logger
}

// New constructs a Chain of registers driven by the serial, clock and latch
// pins of the Driver.
//
// The pins are configured as outputs and all outputs of the chain are driven
// low before New returns.
//
// The available options are [WithClockDelay] and [WithLogger].
//
// Returns an error wrapping ErrConfiguration if registers is not in the range
// 1..MaxRegisters, or if the pins are not distinct.
func New(d Driver, serial, clock, latch, registers int, options ...NewChainOption) (*Chain, error) {
	b := builder{log: zerolog.Nop()}
	for _, o := range options {
		o.applyChainOption(&b)
	}
	if d == nil {
		return nil, errors.Wrap(ErrConfiguration, "no driver")
	}
	if registers < 1 || registers > MaxRegisters {
		return nil, errors.Wrapf(ErrConfiguration, "register count %d not in range 1..%d", registers, MaxRegisters)
	}
	if serial == clock || serial == latch || clock == latch {
		return nil, errors.Wrapf(ErrConfiguration, "pins must be distinct: serial %d, clock %d, latch %d", serial, clock, latch)
	}
	if b.delay < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "negative clock delay %s", b.delay)
	}
	c := Chain{
		d:      d,
		serial: serial,
		clock:  clock,
		latch:  latch,
		buf:    make([]byte, registers),
		delay:  b.delay,
		log:    b.log,
	}
	for _, p := range []int{serial, latch, clock} {
		if err := d.ConfigureOutput(p); err != nil {
			return nil, errors.Wrapf(err, "configure pin %d", p)
		}
	}
	c.Clear()
	if err := c.Transmit(); err != nil {
		return nil, err
	}
	c.log.Debug().
		Int("serial", serial).
		Int("clock", clock).
		Int("latch", latch).
		Int("registers", registers).
		Dur("delay", b.delay).
		Msg("chain initialised")
	return &c, nil
}

// Registers returns the number of registers in the chain.
func (c *Chain) Registers() int {
	return len(c.buf)
}

// NumPins returns the number of parallel outputs provided by the chain.
func (c *Chain) NumPins() int {
	return len(c.buf) * 8
}

// Pins returns the serial, clock and latch pins driving the chain.
func (c *Chain) Pins() (serial, clock, latch int) {
	return c.serial, c.clock, c.latch
}

// Bytes returns a copy of the buffered register values.
//
// Element 0 is the register nearest the controller.
func (c *Chain) Bytes() []byte {
	b := make([]byte, len(c.buf))
	copy(b, c.buf)
	return b
}

// Pin returns the buffered level of the output.
//
// This is the level the output will be driven to after the next Transmit,
// not necessarily the level it is currently driven to.
func (c *Chain) Pin(index int) (Level, error) {
	if err := c.checkIndex(index); err != nil {
		return Low, err
	}
	return LevelOf(int(c.buf[index/8] >> (index % 8) & 1)), nil
}

// SetPin sets the buffered level of the output.
//
// The output is not updated until the next Transmit.
//
// Returns an error wrapping ErrIndexOutOfRange, and leaves the buffer
// unchanged, if index is not in the range 0..NumPins()-1.
func (c *Chain) SetPin(index int, l Level) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.setPin(index, l)
	return nil
}

// setPin sets the bit for a valid index.
func (c *Chain) setPin(index int, l Level) {
	mask := byte(1) << (index % 8)
	v := c.buf[index/8] &^ mask
	if l == High {
		v |= mask
	}
	c.buf[index/8] = v
	c.dirty = true
}

// SetRegister sets the buffered levels of all eight outputs of a register.
//
// Bit n of value is the level of output register*8+n.
//
// Returns an error wrapping ErrIndexOutOfRange if register is not in the
// range 0..Registers()-1.
func (c *Chain) SetRegister(register int, value byte) error {
	if register < 0 || register >= len(c.buf) {
		return errors.Wrapf(ErrIndexOutOfRange, "register %d not in range 0..%d", register, len(c.buf)-1)
	}
	c.buf[register] = value
	c.dirty = true
	return nil
}

// SetAll sets the buffered level of every output in the chain.
func (c *Chain) SetAll(l Level) {
	for i := len(c.buf)*8 - 1; i >= 0; i-- {
		c.setPin(i, l)
	}
}

// Clear sets the buffered level of every output in the chain low.
func (c *Chain) Clear() {
	c.SetAll(Low)
}

// UpdateNeeded returns true if the buffer has been modified since the last
// Transmit.
func (c *Chain) UpdateNeeded() bool {
	return c.dirty
}

// Transmit writes the buffer to the chain.
//
// The latch is held low while the registers are shifted out, starting with
// the last register in the chain and with the most significant bit of each
// register first.  Each bit is presented on the serial line while the clock
// is low and is captured by the rising edge of the clock.  Raising the latch
// then updates all the outputs together.
//
// Transmit may be called whether or not an update is needed.
//
// If the driver returns an error the transmission is abandoned, the error
// is returned and the buffer remains flagged as needing an update.
func (c *Chain) Transmit() error {
	if err := c.write(c.latch, Low); err != nil {
		return err
	}
	for r := len(c.buf) - 1; r >= 0; r-- {
		v := c.buf[r]
		for b := 7; b >= 0; b-- {
			if err := c.write(c.clock, Low); err != nil {
				return err
			}
			if err := c.write(c.serial, LevelOf(int(v>>b&1))); err != nil {
				return err
			}
			if err := c.write(c.clock, High); err != nil {
				return err
			}
		}
	}
	if err := c.write(c.latch, High); err != nil {
		return err
	}
	c.dirty = false
	c.log.Debug().Hex("registers", c.buf).Msg("transmitted")
	return nil
}

// Flush transmits the buffer if it has been modified since the last
// Transmit.
//
// Returns true if the buffer was transmitted.
func (c *Chain) Flush() (bool, error) {
	if !c.dirty {
		return false, nil
	}
	if err := c.Transmit(); err != nil {
		return false, err
	}
	return true, nil
}

// write drives the pin to the level, then waits for the clock delay.
func (c *Chain) write(pin int, l Level) error {
	if err := c.d.Write(pin, l); err != nil {
		return errors.Wrapf(err, "write pin %d %s", pin, l)
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return nil
}

func (c *Chain) checkIndex(index int) error {
	if index < 0 || index >= len(c.buf)*8 {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d not in range 0..%d", index, len(c.buf)*8-1)
	}
	return nil
}
