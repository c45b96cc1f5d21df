// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package shiftreg is a driver for chains of serial-in/parallel-out shift
registers, such as the 74HC595, driven by bit-banging three output lines.

A [Chain] holds the desired level of every parallel output across one or more
daisy-chained 8-bit registers. Outputs are identified by index, with index 0
being bit 0 of the register nearest the controller. Setting outputs only
updates the in-memory buffer. The buffer is written to the hardware by
[Chain.Transmit], which shifts each register out MSB first, starting with the
register furthest down the chain, and then pulses the latch so all outputs
change together.

The lines themselves are driven through a [Driver], so the chain can be used
with any GPIO implementation.  The chardev and periph sub-packages provide
drivers for the Linux GPIO character device and periph.io respectively, and
the shiftregtest sub-package provides a recording driver and a model of the
hardware chain for testing.

A Chain is not safe for concurrent use.

# Example Usage

Drive two chained registers from lines 17 (serial), 27 (clock) and 22 (latch)
of gpiochip0:

	d, err := chardev.New("gpiochip0")
	defer d.Close()
	c, err := shiftreg.New(d, 17, 27, 22, 2)
	c.SetPin(3, shiftreg.High)
	c.SetPin(12, shiftreg.High)
	err = c.Transmit()

Transmitting is relatively slow, so batch updates and only transmit when
required:

	c.SetAll(shiftreg.High)
	if c.UpdateNeeded() {
		err = c.Transmit()
	}

or equivalently:

	sent, err := c.Flush()
*/
package shiftreg
