// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package chardev provides a shiftreg.Driver for lines accessed through the
// Linux GPIO character device.
//
// Pins are identified by their offset on the gpiochip.
package chardev

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"github.com/warthog618/go-shiftreg"
)

// DefaultConsumer is the consumer label applied to requested lines.
const DefaultConsumer = "shiftreg"

// ErrNotOutput indicates a write to a line that has not been requested as
// an output.
var ErrNotOutput = errors.New("line not requested as output")

// Driver drives lines on a single gpiochip.
type Driver struct {
	chip *gpiocdev.Chip

	// requested lines, keyed by offset.
	lines map[int]*gpiocdev.Line
}

// NewDriverOption defines the interface required to provide an option to New.
type NewDriverOption interface {
	applyDriverOption(*builder)
}

type builder struct {
	consumer string
}

// ConsumerOption defines the consumer label for requested lines.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label reported for
// the requested lines.
//
// The default is DefaultConsumer.
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyDriverOption(b *builder) {
	b.consumer = string(o)
}

// New opens the named gpiochip, e.g. "gpiochip0".
//
// The available option is [WithConsumer].
func New(chip string, options ...NewDriverOption) (*Driver, error) {
	b := builder{consumer: DefaultConsumer}
	for _, o := range options {
		o.applyDriverOption(&b)
	}
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(b.consumer))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", chip)
	}
	return &Driver{chip: c, lines: make(map[int]*gpiocdev.Line)}, nil
}

// Chip returns the name of the gpiochip.
func (d *Driver) Chip() string {
	return d.chip.Name
}

// ConfigureOutput requests the line as an output, initially driven low.
//
// If the line has already been requested it is driven low.
func (d *Driver) ConfigureOutput(offset int) error {
	if l, ok := d.lines[offset]; ok {
		return l.SetValue(0)
	}
	l, err := d.chip.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return errors.Wrapf(err, "request line %d", offset)
	}
	d.lines[offset] = l
	return nil
}

// Write sets the value of the line.
func (d *Driver) Write(offset int, l shiftreg.Level) error {
	line, ok := d.lines[offset]
	if !ok {
		return errors.Wrapf(ErrNotOutput, "line %d", offset)
	}
	return line.SetValue(l.Bit())
}

// Close releases all the requested lines and the chip.
//
// The lines retain their values after release, though that is dependent on
// the GPIO driver.
func (d *Driver) Close() error {
	var err error
	for o, l := range d.lines {
		if lerr := l.Close(); lerr != nil && err == nil {
			err = errors.Wrapf(lerr, "release line %d", o)
		}
		delete(d.lines, o)
	}
	if cerr := d.chip.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
