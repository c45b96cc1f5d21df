// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"time"

	"github.com/rs/zerolog"
)

// NewChainOption defines the interface required to provide an option to New.
type NewChainOption interface {
	applyChainOption(*builder)
}

// ClockDelayOption defines the delay applied after each write to the lines.
type ClockDelayOption time.Duration

// WithClockDelay returns an option that sets the delay applied after each
// write to the serial, clock and latch lines.
//
// By default no delay is applied and the pulse width is determined by the
// overhead of the driver calls. That is sufficient for typical CMOS shift
// registers driven by a slow GPIO interface, but a fast driver may need a
// delay to meet the setup and pulse width timing of the register.
//
// The delay must not be negative.
func WithClockDelay(d time.Duration) ClockDelayOption {
	return ClockDelayOption(d)
}

func (o ClockDelayOption) applyChainOption(b *builder) {
	b.delay = time.Duration(o)
}

// LoggerOption provides the logger used by a Chain.
type LoggerOption struct {
	zerolog.Logger
}

// WithLogger returns an option that sets the logger used to report
// construction and transmissions at debug level.
//
// By default the Chain does not log.
func WithLogger(l zerolog.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyChainOption(b *builder) {
	b.log = o.Logger
}
