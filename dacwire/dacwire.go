// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dacwire

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3/cpu"
)

const (
	// MinCode is the lowest code ever sent to the DAC. The range keeps
	// headroom at both ends of the 12-bit scale.
	MinCode uint16 = 205
	// MaxCode is the highest code ever sent to the DAC.
	MaxCode uint16 = 3891
	// CodeSpan is the number of steps between MinCode and MaxCode.
	CodeSpan = MaxCode - MinCode

	// FrameBits is the number of clocked bits in a write frame.
	FrameBits = 27

	// DefaultHalfPeriod is the hold applied to every clock phase.
	DefaultHalfPeriod = 5 * time.Microsecond

	devName = "dacwire"
)

// header is the command selector, the first framing slot and the reserved
// bits that precede the code in every frame.
var header = [...]gpio.Level{
	gpio.High, gpio.High, gpio.Low, gpio.Low, gpio.Low, gpio.Low, gpio.Low, gpio.Low,
	gpio.High,
	gpio.Low, gpio.Low, gpio.Low, gpio.Low,
}

var (
	errMissingLine  = errors.New("dacwire: clock and data lines are required")
	errFrameLength  = errors.New("dacwire: invalid frame length")
	errFrameHeader  = errors.New("dacwire: invalid frame header")
	errFrameFraming = errors.New("dacwire: invalid framing bit")
)

// Opts holds the timing configuration of a Bus.
type Opts struct {
	// HalfPeriod is the hold applied after every line transition that the
	// device samples. Zero means DefaultHalfPeriod.
	HalfPeriod time.Duration
	// Delay blocks for the given duration. Nil means BusyWait. Tests can
	// inject a recording no-op.
	Delay func(time.Duration)
}

// Bus is the two-wire link to the output DAC.
type Bus struct {
	mu         sync.Mutex
	clock      gpio.PinOut
	data       gpio.PinOut
	halfPeriod time.Duration
	delay      func(time.Duration)
}

// New returns a Bus using the clock and data lines. Both lines are driven
// high, which is the idle state of the bus.
func New(clock, data gpio.PinOut, opts *Opts) (*Bus, error) {
	if clock == nil || data == nil {
		return nil, errMissingLine
	}
	b := &Bus{clock: clock, data: data, halfPeriod: DefaultHalfPeriod, delay: BusyWait}
	if opts != nil {
		if opts.HalfPeriod > 0 {
			b.halfPeriod = opts.HalfPeriod
		}
		if opts.Delay != nil {
			b.delay = opts.Delay
		}
	}
	if err := b.idle(); err != nil {
		return nil, err
	}
	return b, nil
}

// ClampCode saturates code into [MinCode, MaxCode].
func ClampCode(code uint16) uint16 {
	if code < MinCode {
		return MinCode
	}
	if code > MaxCode {
		return MaxCode
	}
	return code
}

// Frame returns the bits clocked out for code, in transmission order. code
// is clamped into [MinCode, MaxCode] first.
func Frame(code uint16) []gpio.Level {
	code = ClampCode(code)
	f := make([]gpio.Level, 0, FrameBits)
	f = append(f, header[:]...)
	for i := 11; i > 7; i-- {
		f = append(f, code>>i&1 == 1)
	}
	f = append(f, gpio.High)
	for i := 7; i >= 0; i-- {
		f = append(f, code>>i&1 == 1)
	}
	return append(f, gpio.High)
}

// Decode returns the code carried by a frame captured on the wire. It
// validates the header and the framing slots.
func Decode(frame []gpio.Level) (uint16, error) {
	if len(frame) != FrameBits {
		return 0, fmt.Errorf("%w: got %d bits, want %d", errFrameLength, len(frame), FrameBits)
	}
	for i, l := range header {
		if frame[i] != l {
			return 0, fmt.Errorf("%w: bit %d", errFrameHeader, i)
		}
	}
	if !frame[17] || !frame[26] {
		return 0, errFrameFraming
	}
	var code uint16
	for _, i := range [...]int{13, 14, 15, 16, 18, 19, 20, 21, 22, 23, 24, 25} {
		code <<= 1
		if frame[i] {
			code |= 1
		}
	}
	return code, nil
}

// Transmit clocks code out to the DAC. code is clamped into
// [MinCode, MaxCode]. The call blocks for the whole frame, roughly
// 2*FrameBits half periods, and is never interleaved with another frame.
//
// Nothing is read back from the device; the only errors reported are the
// ones returned by the GPIO lines themselves.
func (b *Bus) Transmit(code uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w := wire{b: b}
	w.start()
	for _, bit := range Frame(code) {
		w.bit(bit)
	}
	w.stop()
	if w.err != nil {
		// Try to leave the bus idle so the next frame starts clean.
		_ = b.idle()
		return fmt.Errorf("dacwire: %w", w.err)
	}
	return nil
}

// Halt returns both lines to the idle-high state.
func (b *Bus) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idle()
}

func (b *Bus) String() string {
	return fmt.Sprintf("%s{%s, %s}", devName, b.clock, b.data)
}

func (b *Bus) idle() error {
	if err := b.clock.Out(gpio.High); err != nil {
		return fmt.Errorf("dacwire: %w", err)
	}
	if err := b.data.Out(gpio.High); err != nil {
		return fmt.Errorf("dacwire: %w", err)
	}
	return nil
}

// wire sequences line transitions for one frame. The first error sticks and
// turns the remaining transitions into no-ops.
type wire struct {
	b   *Bus
	err error
}

func (w *wire) out(p gpio.PinOut, l gpio.Level) {
	if w.err == nil {
		w.err = p.Out(l)
	}
}

func (w *wire) hold() {
	if w.err == nil {
		w.b.delay(w.b.halfPeriod)
	}
}

func (w *wire) start() {
	w.out(w.b.data, gpio.Low)
	w.hold()
	w.out(w.b.clock, gpio.Low)
}

func (w *wire) bit(l gpio.Level) {
	w.out(w.b.data, l)
	w.hold()
	w.out(w.b.clock, gpio.High)
	w.hold()
	w.out(w.b.clock, gpio.Low)
}

func (w *wire) stop() {
	w.out(w.b.clock, gpio.High)
	w.hold()
	w.out(w.b.data, gpio.High)
	w.hold()
}

// BusyWait blocks for d without yielding the CPU. time.Sleep cannot honour
// holds of a few microseconds.
func BusyWait(d time.Duration) {
	cpu.Nanospin(d)
}

var _ conn.Resource = &Bus{}
