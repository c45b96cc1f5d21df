// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-shiftreg"
	"github.com/warthog618/go-shiftreg/shiftregtest"
)

const (
	serial = 3
	clock  = 5
	latch  = 7
)

func newChain(t *testing.T, registers int, options ...shiftreg.NewChainOption) (*shiftreg.Chain, *shiftregtest.Recorder) {
	t.Helper()
	r := shiftregtest.NewRecorder()
	c, err := shiftreg.New(r, serial, clock, latch, registers, options...)
	require.Nil(t, err)
	require.NotNil(t, c)
	return c, r
}

// replay runs the recorded trace through a model of the hardware.
func replay(r *shiftregtest.Recorder, registers int) *shiftregtest.Model {
	m := shiftregtest.NewModel(serial, clock, latch, registers)
	m.Replay(r.Events)
	return m
}

func TestNew(t *testing.T) {
	c, r := newChain(t, 2)

	assert.Equal(t, 2, c.Registers())
	assert.Equal(t, 16, c.NumPins())
	s, k, l := c.Pins()
	assert.Equal(t, serial, s)
	assert.Equal(t, clock, k)
	assert.Equal(t, latch, l)
	assert.Equal(t, []int{serial, latch, clock}, r.Outputs)
	assert.False(t, c.UpdateNeeded())
	assert.Equal(t, []byte{0, 0}, c.Bytes())

	// initial transmission drives everything low
	assert.Equal(t, 2+2*8*3, len(r.Events))
	m := replay(r, 2)
	assert.Equal(t, 1, m.Latches())
	assert.Equal(t, 16, m.Clocks())
	assert.Equal(t, []byte{0, 0}, m.Outputs())
	assert.Equal(t, shiftreg.High, r.Level(latch))
}

func TestNewMaxRegisters(t *testing.T) {
	c, r := newChain(t, shiftreg.MaxRegisters)
	assert.Equal(t, shiftreg.MaxRegisters*8, c.NumPins())
	m := replay(r, shiftreg.MaxRegisters)
	assert.Equal(t, shiftreg.MaxRegisters*8, m.Clocks())
}

func TestNewConfigurationError(t *testing.T) {
	patterns := []struct {
		name      string
		d         shiftreg.Driver
		s, k, l   int
		registers int
		options   []shiftreg.NewChainOption
	}{
		{"no driver", nil, serial, clock, latch, 1, nil},
		{"no registers", shiftregtest.NewRecorder(), serial, clock, latch, 0, nil},
		{"negative registers", shiftregtest.NewRecorder(), serial, clock, latch, -1, nil},
		{"too many registers", shiftregtest.NewRecorder(), serial, clock, latch, shiftreg.MaxRegisters + 1, nil},
		{"serial is clock", shiftregtest.NewRecorder(), 1, 1, latch, 1, nil},
		{"serial is latch", shiftregtest.NewRecorder(), 1, clock, 1, 1, nil},
		{"clock is latch", shiftregtest.NewRecorder(), serial, 1, 1, 1, nil},
		{"negative delay", shiftregtest.NewRecorder(), serial, clock, latch, 1,
			[]shiftreg.NewChainOption{shiftreg.WithClockDelay(-time.Microsecond)}},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c, err := shiftreg.New(p.d, p.s, p.k, p.l, p.registers, p.options...)
			assert.ErrorIs(t, err, shiftreg.ErrConfiguration)
			assert.Nil(t, c)
			if r, ok := p.d.(*shiftregtest.Recorder); ok {
				// nothing touched
				assert.Empty(t, r.Outputs)
				assert.Empty(t, r.Events)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestNewDriverError(t *testing.T) {
	errFail := errors.New("line gone")
	r := shiftregtest.NewRecorder()
	r.Fail = shiftregtest.FailAfter(0, errFail)
	c, err := shiftreg.New(r, serial, clock, latch, 1)
	assert.ErrorIs(t, err, errFail)
	assert.Nil(t, c)
}

func TestSetPin(t *testing.T) {
	registers := 3
	c, r := newChain(t, registers)
	for i := 0; i < c.NumPins(); i++ {
		c.Clear()
		err := c.SetPin(i, shiftreg.High)
		require.Nil(t, err)
		assert.True(t, c.UpdateNeeded())
		l, err := c.Pin(i)
		require.Nil(t, err)
		assert.Equal(t, shiftreg.High, l)

		r.Reset()
		err = c.Transmit()
		require.Nil(t, err)
		m := replay(r, registers)
		for o := 0; o < c.NumPins(); o++ {
			assert.Equal(t, shiftreg.Level(o == i), m.Output(o), "set %d, output %d", i, o)
		}
	}

	// clearing a single pin leaves the others alone
	c.SetAll(shiftreg.High)
	err := c.SetPin(9, shiftreg.Low)
	require.Nil(t, err)
	assert.Equal(t, []byte{0xff, 0xfd, 0xff}, c.Bytes())
	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)
	m := replay(r, registers)
	assert.Equal(t, shiftreg.Low, m.Output(9))
	assert.Equal(t, shiftreg.High, m.Output(8))
	assert.Equal(t, shiftreg.High, m.Output(10))
}

func TestSetPinOutOfRange(t *testing.T) {
	c, _ := newChain(t, 2)
	for _, i := range []int{-1, 16, 17, 1000} {
		err := c.SetPin(i, shiftreg.High)
		assert.ErrorIs(t, err, shiftreg.ErrIndexOutOfRange, i)
		_, err = c.Pin(i)
		assert.ErrorIs(t, err, shiftreg.ErrIndexOutOfRange, i)
	}
	assert.False(t, c.UpdateNeeded())
	assert.Equal(t, []byte{0, 0}, c.Bytes())
}

func TestSetRegister(t *testing.T) {
	c, r := newChain(t, 2)
	err := c.SetRegister(1, 0xa5)
	require.Nil(t, err)
	assert.True(t, c.UpdateNeeded())
	l, err := c.Pin(8)
	require.Nil(t, err)
	assert.Equal(t, shiftreg.High, l)
	l, err = c.Pin(9)
	require.Nil(t, err)
	assert.Equal(t, shiftreg.Low, l)

	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)
	assert.Equal(t, []byte{0, 0xa5}, replay(r, 2).Outputs())

	err = c.SetRegister(2, 0xff)
	assert.ErrorIs(t, err, shiftreg.ErrIndexOutOfRange)
	err = c.SetRegister(-1, 0xff)
	assert.ErrorIs(t, err, shiftreg.ErrIndexOutOfRange)
	assert.False(t, c.UpdateNeeded())
}

func TestSetAll(t *testing.T) {
	c, r := newChain(t, 4)

	c.SetAll(shiftreg.High)
	assert.True(t, c.UpdateNeeded())
	r.Reset()
	err := c.Transmit()
	require.Nil(t, err)
	m := replay(r, 4)
	for o := 0; o < c.NumPins(); o++ {
		assert.Equal(t, shiftreg.High, m.Output(o), o)
	}

	c.Clear()
	assert.True(t, c.UpdateNeeded())
	err = c.Transmit()
	require.Nil(t, err)
	m.Replay(r.Events[len(r.Events)-(2+4*8*3):])
	assert.Equal(t, []byte{0, 0, 0, 0}, m.Outputs())
}

func TestTransmitTrace(t *testing.T) {
	c, r := newChain(t, 2)
	err := c.SetPin(0, shiftreg.High)
	require.Nil(t, err)
	err = c.SetPin(15, shiftreg.High)
	require.Nil(t, err)
	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)

	// last register first, MSB first
	bits := []shiftreg.Level{
		true, false, false, false, false, false, false, false,
		false, false, false, false, false, false, false, true,
	}
	xe := []shiftregtest.Event{{Pin: latch, Level: shiftreg.Low}}
	for _, b := range bits {
		xe = append(xe,
			shiftregtest.Event{Pin: clock, Level: shiftreg.Low},
			shiftregtest.Event{Pin: serial, Level: b},
			shiftregtest.Event{Pin: clock, Level: shiftreg.High},
		)
	}
	xe = append(xe, shiftregtest.Event{Pin: latch, Level: shiftreg.High})
	assert.Equal(t, xe, r.Events)

	m := replay(r, 2)
	assert.Equal(t, []byte{0x01, 0x80}, m.Outputs())
}

func TestTransmitIdempotent(t *testing.T) {
	c, r := newChain(t, 2)
	err := c.SetRegister(0, 0x3c)
	require.Nil(t, err)
	err = c.SetPin(13, shiftreg.High)
	require.Nil(t, err)

	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)
	first := r.Events
	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)
	assert.Equal(t, first, r.Events)
	assert.False(t, c.UpdateNeeded())
}

func TestTransmitError(t *testing.T) {
	errFail := errors.New("line gone")
	c, r := newChain(t, 2)
	err := c.SetPin(4, shiftreg.High)
	require.Nil(t, err)

	r.Reset()
	r.Fail = shiftregtest.FailAfter(5, errFail)
	err = c.Transmit()
	assert.ErrorIs(t, err, errFail)
	assert.Equal(t, 5, len(r.Events))
	assert.True(t, c.UpdateNeeded())

	r.Fail = nil
	r.Reset()
	err = c.Transmit()
	require.Nil(t, err)
	assert.False(t, c.UpdateNeeded())
	assert.Equal(t, shiftreg.High, replay(r, 2).Output(4))
}

func TestUpdateNeeded(t *testing.T) {
	c, _ := newChain(t, 1)
	assert.False(t, c.UpdateNeeded())

	mutators := []struct {
		name string
		fn   func()
	}{
		{"setPin", func() { c.SetPin(2, shiftreg.High) }},
		{"setPin unchanged", func() { c.SetPin(2, shiftreg.High) }},
		{"setAll", func() { c.SetAll(shiftreg.High) }},
		{"clear", func() { c.Clear() }},
		{"setRegister", func() { c.SetRegister(0, 0x42) }},
	}
	for _, m := range mutators {
		m.fn()
		assert.True(t, c.UpdateNeeded(), m.name)
		err := c.Transmit()
		require.Nil(t, err)
		assert.False(t, c.UpdateNeeded(), m.name)
	}
}

func TestFlush(t *testing.T) {
	c, r := newChain(t, 1)
	r.Reset()

	sent, err := c.Flush()
	require.Nil(t, err)
	assert.False(t, sent)
	assert.Empty(t, r.Events)

	c.SetAll(shiftreg.High)
	sent, err = c.Flush()
	require.Nil(t, err)
	assert.True(t, sent)
	assert.Equal(t, []byte{0xff}, replay(r, 1).Outputs())

	r.Reset()
	sent, err = c.Flush()
	require.Nil(t, err)
	assert.False(t, sent)
	assert.Empty(t, r.Events)

	errFail := errors.New("line gone")
	c.Clear()
	r.Fail = shiftregtest.FailAfter(0, errFail)
	sent, err = c.Flush()
	assert.ErrorIs(t, err, errFail)
	assert.False(t, sent)
	assert.True(t, c.UpdateNeeded())
}

func TestBytesIsCopy(t *testing.T) {
	c, _ := newChain(t, 2)
	b := c.Bytes()
	b[0] = 0xff
	assert.Equal(t, []byte{0, 0}, c.Bytes())
	assert.False(t, c.UpdateNeeded())
}

func TestWithClockDelay(t *testing.T) {
	delay := 100 * time.Microsecond
	start := time.Now()
	c, _ := newChain(t, 1, shiftreg.WithClockDelay(delay))
	// latch low, 8 bits of 3 writes, latch high
	assert.True(t, time.Since(start) >= 26*delay)

	start = time.Now()
	err := c.Transmit()
	require.Nil(t, err)
	assert.True(t, time.Since(start) >= 26*delay)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	c, _ := newChain(t, 2, shiftreg.WithLogger(log))
	assert.Contains(t, buf.String(), "chain initialised")
	assert.Contains(t, buf.String(), `"registers":2`)

	buf.Reset()
	c.SetRegister(1, 0xab)
	err := c.Transmit()
	require.Nil(t, err)
	assert.Contains(t, buf.String(), "transmitted")
	assert.Contains(t, buf.String(), "00ab")
}
