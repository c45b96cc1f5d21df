// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftregtest

import "github.com/warthog618/go-shiftreg"

// Model simulates a chain of 74HC595 shift registers.
//
// Each rising edge of the clock shifts the level of the serial line into bit 0
// of the first register, with bit 7 of each register shifting into bit 0 of
// the next. Each rising edge of the latch copies the shift registers to the
// outputs.
//
// All lines are initially low, as are all outputs.
//
// Model also implements shiftreg.Driver so it can stand in for the hardware
// directly.
type Model struct {
	serial int
	clock  int
	latch  int

	serialLevel shiftreg.Level
	clockLevel  shiftreg.Level
	latchLevel  shiftreg.Level

	shift   []byte
	outputs []byte

	// number of rising edges seen on each of the clock and latch.
	clocks  int
	latches int
}

// NewModel creates a model of a chain of registers connected to the serial,
// clock and latch pins.
func NewModel(serial, clock, latch, registers int) *Model {
	return &Model{
		serial:  serial,
		clock:   clock,
		latch:   latch,
		shift:   make([]byte, registers),
		outputs: make([]byte, registers),
	}
}

// ConfigureOutput is a no-op.
func (m *Model) ConfigureOutput(pin int) error {
	return nil
}

// Write applies the write to the model.
//
// Writes to pins other than the serial, clock and latch are ignored.
func (m *Model) Write(pin int, l shiftreg.Level) error {
	m.Apply(Event{Pin: pin, Level: l})
	return nil
}

// Apply applies a single event to the model.
func (m *Model) Apply(e Event) {
	switch e.Pin {
	case m.serial:
		m.serialLevel = e.Level
	case m.clock:
		if e.Level == shiftreg.High && m.clockLevel == shiftreg.Low {
			m.shiftIn(byte(m.serialLevel.Bit()))
		}
		m.clockLevel = e.Level
	case m.latch:
		if e.Level == shiftreg.High && m.latchLevel == shiftreg.Low {
			copy(m.outputs, m.shift)
			m.latches++
		}
		m.latchLevel = e.Level
	}
}

// Replay applies the events to the model, in order.
func (m *Model) Replay(events []Event) {
	for _, e := range events {
		m.Apply(e)
	}
}

func (m *Model) shiftIn(carry byte) {
	for r := range m.shift {
		out := m.shift[r] >> 7
		m.shift[r] = m.shift[r]<<1 | carry
		carry = out
	}
	m.clocks++
}

// Output returns the level of the parallel output at index.
//
// Output n is bit n%8 of register n/8.
func (m *Model) Output(index int) shiftreg.Level {
	return shiftreg.LevelOf(int(m.outputs[index/8] >> (index % 8) & 1))
}

// Outputs returns a copy of the latched outputs, one byte per register.
func (m *Model) Outputs() []byte {
	b := make([]byte, len(m.outputs))
	copy(b, m.outputs)
	return b
}

// Clocks returns the number of rising edges seen on the clock.
func (m *Model) Clocks() int {
	return m.clocks
}

// Latches returns the number of rising edges seen on the latch.
func (m *Model) Latches() int {
	return m.latches
}
