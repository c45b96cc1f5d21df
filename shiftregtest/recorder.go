// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package shiftregtest provides test doubles for users of the shiftreg
// package.
//
// A [Recorder] is a shiftreg.Driver that records every write, and a [Model]
// simulates the behaviour of a chain of 74HC595 registers so that a recorded
// trace can be checked against the outputs it would produce.
package shiftregtest

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
)

// ErrNotOutput indicates a write to a pin that has not been configured as an
// output.
var ErrNotOutput = errors.New("pin not configured as output")

// Event is a single write to a pin.
type Event struct {
	Pin   int
	Level shiftreg.Level
}

func (e Event) String() string {
	return fmt.Sprintf("%d:%s", e.Pin, e.Level)
}

// Recorder is a shiftreg.Driver that records the pins configured as outputs
// and every write to them.
type Recorder struct {
	// The pins configured as outputs, in the order they were configured.
	Outputs []int

	// The writes made to the pins, in the order they were made.
	Events []Event

	// If set, Fail is called before each write is recorded and any error it
	// returns is returned by Write, and the write is not recorded.
	Fail func(e Event) error

	levels map[int]shiftreg.Level
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{levels: make(map[int]shiftreg.Level)}
}

// ConfigureOutput records the pin as an output.
//
// Outputs are initially low.
func (r *Recorder) ConfigureOutput(pin int) error {
	if r.levels == nil {
		r.levels = make(map[int]shiftreg.Level)
	}
	if _, ok := r.levels[pin]; !ok {
		r.Outputs = append(r.Outputs, pin)
	}
	r.levels[pin] = shiftreg.Low
	return nil
}

// Write records the write to the pin.
func (r *Recorder) Write(pin int, l shiftreg.Level) error {
	if _, ok := r.levels[pin]; !ok {
		return errors.Wrapf(ErrNotOutput, "pin %d", pin)
	}
	e := Event{Pin: pin, Level: l}
	if r.Fail != nil {
		if err := r.Fail(e); err != nil {
			return err
		}
	}
	r.levels[pin] = l
	r.Events = append(r.Events, e)
	return nil
}

// Level returns the level the pin was last driven to.
func (r *Recorder) Level(pin int) shiftreg.Level {
	return r.levels[pin]
}

// Reset discards the recorded events.
//
// The configured outputs and their levels are retained.
func (r *Recorder) Reset() {
	r.Events = nil
}

// FailAfter returns a Fail function that allows n writes and then fails
// every subsequent write with err.
func FailAfter(n int, err error) func(Event) error {
	return func(Event) error {
		if n <= 0 {
			return err
		}
		n--
		return nil
	}
}
