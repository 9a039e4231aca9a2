// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dacwire

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// hold marks a delay in the bus log.
const hold = "hold"

// transition is one level change seen on the bus, or a hold between two
// of them.
type transition struct {
	Line  string
	Level gpio.Level
	Hold  time.Duration
}

// scope records, in order, every transition of the clock and data lines
// and every hold requested between them.
type scope struct {
	log  []transition
	fail int
}

type scopeLine struct {
	gpiotest.Pin
	s *scope
}

func (l *scopeLine) Out(v gpio.Level) error {
	if l.s.fail > 0 && len(l.s.log)+1 >= l.s.fail {
		return errors.New("line stuck")
	}
	l.s.log = append(l.s.log, transition{Line: l.N, Level: v})
	return l.Pin.Out(v)
}

func newScope(t *testing.T) (*scope, *Bus) {
	s := &scope{}
	clk := &scopeLine{Pin: gpiotest.Pin{N: "CLK", Num: 8}, s: s}
	dat := &scopeLine{Pin: gpiotest.Pin{N: "DAT", Num: 7}, s: s}
	delay := func(d time.Duration) { s.log = append(s.log, transition{Line: hold, Hold: d}) }
	b, err := New(clk, dat, &Opts{Delay: delay})
	if err != nil {
		t.Fatal(err)
	}
	s.log = nil
	return s, b
}

// holds returns the holds of the log.
func (s *scope) holds() []time.Duration {
	var h []time.Duration
	for _, tr := range s.log {
		if tr.Line == hold {
			h = append(h, tr.Hold)
		}
	}
	return h
}

// sample replays the transitions and returns the data level on every
// rising clock edge, the way the DAC sees the frame.
func (s *scope) sample() []gpio.Level {
	var bits []gpio.Level
	data := gpio.High
	for _, tr := range s.log {
		switch tr.Line {
		case "DAT":
			data = tr.Level
		case "CLK":
			if tr.Level {
				bits = append(bits, data)
			}
		}
	}
	return bits
}

func levels(s string) []gpio.Level {
	var r []gpio.Level
	for _, c := range s {
		switch c {
		case '0':
			r = append(r, gpio.Low)
		case '1':
			r = append(r, gpio.High)
		}
	}
	return r
}

func TestNew(t *testing.T) {
	if _, err := New(nil, &gpiotest.Pin{}, nil); err == nil {
		t.Error("expected error for missing clock")
	}
	clk, dat := &gpiotest.Pin{N: "CLK"}, &gpiotest.Pin{N: "DAT"}
	b, err := New(clk, dat, nil)
	if err != nil {
		t.Fatal(err)
	}
	if clk.Read() != gpio.High || dat.Read() != gpio.High {
		t.Error("expected the bus to start idle-high")
	}
	if b.halfPeriod != DefaultHalfPeriod {
		t.Errorf("halfPeriod=%s", b.halfPeriod)
	}
	if s := b.String(); s != "dacwire{"+clk.String()+", "+dat.String()+"}" {
		t.Errorf("String()=%q", s)
	}
}

func TestClampCode(t *testing.T) {
	for _, tc := range []struct {
		in, want uint16
	}{
		{0, MinCode},
		{204, MinCode},
		{205, 205},
		{2048, 2048},
		{3891, 3891},
		{3892, MaxCode},
		{0xffff, MaxCode},
	} {
		if got := ClampCode(tc.in); got != tc.want {
			t.Errorf("ClampCode(%d)=%d want %d", tc.in, got, tc.want)
		}
	}
}

func TestFrame(t *testing.T) {
	for _, tc := range []struct {
		code uint16
		want string
	}{
		// 205 = 0000 1100 1101
		{205, "11000000 1 0000 0000 1 11001101 1"},
		// 3891 = 1111 0011 0011
		{3891, "11000000 1 0000 1111 1 00110011 1"},
		// 2048 = 1000 0000 0000
		{2048, "11000000 1 0000 1000 1 00000000 1"},
		// Clamped to 205.
		{0, "11000000 1 0000 0000 1 11001101 1"},
		// Clamped to 3891.
		{4095, "11000000 1 0000 1111 1 00110011 1"},
	} {
		got := Frame(tc.code)
		if diff := cmp.Diff(levels(tc.want), got); diff != "" {
			t.Errorf("Frame(%d) difference (-want +got):\n%s", tc.code, diff)
		}
		if len(got) != FrameBits {
			t.Errorf("Frame(%d) has %d bits", tc.code, len(got))
		}
	}
}

func TestDecode(t *testing.T) {
	for code := MinCode; code <= MaxCode; code++ {
		got, err := Decode(Frame(code))
		if err != nil {
			t.Fatalf("Decode(Frame(%d)): %v", code, err)
		}
		if got != code {
			t.Fatalf("Decode(Frame(%d))=%d", code, got)
		}
	}

	if _, err := Decode(Frame(205)[1:]); !errors.Is(err, errFrameLength) {
		t.Errorf("short frame: got %v", err)
	}
	f := Frame(1000)
	f[2] = gpio.High
	if _, err := Decode(f); !errors.Is(err, errFrameHeader) {
		t.Errorf("bad header: got %v", err)
	}
	f = Frame(1000)
	f[17] = gpio.Low
	if _, err := Decode(f); !errors.Is(err, errFrameFraming) {
		t.Errorf("bad framing: got %v", err)
	}
}

func TestTransmit(t *testing.T) {
	h := transition{Line: hold, Hold: DefaultHalfPeriod}
	for _, code := range []uint16{MinCode, 1000, 2048, MaxCode} {
		s, b := newScope(t)
		if err := b.Transmit(code); err != nil {
			t.Fatal(err)
		}

		// Start condition: DATA falls while CLOCK is high, then CLOCK falls.
		wantStart := []transition{{Line: "DAT", Level: gpio.Low}, h, {Line: "CLK", Level: gpio.Low}}
		if diff := cmp.Diff(wantStart, s.log[:3]); diff != "" {
			t.Errorf("start condition (-want +got):\n%s", diff)
		}
		// First header bit: data set up, held, then one full clock pulse.
		wantBit := []transition{
			{Line: "DAT", Level: gpio.High}, h,
			{Line: "CLK", Level: gpio.High}, h,
			{Line: "CLK", Level: gpio.Low},
		}
		if diff := cmp.Diff(wantBit, s.log[3:8]); diff != "" {
			t.Errorf("first bit (-want +got):\n%s", diff)
		}
		// Stop condition: CLOCK rises, then DATA rises.
		n := len(s.log)
		wantStop := []transition{{Line: "CLK", Level: gpio.High}, h, {Line: "DAT", Level: gpio.High}, h}
		if diff := cmp.Diff(wantStop, s.log[n-4:]); diff != "" {
			t.Errorf("stop condition (-want +got):\n%s", diff)
		}

		// One rising edge per frame bit, plus the stop condition.
		bits := s.sample()
		if len(bits) != FrameBits+1 {
			t.Fatalf("code %d: got %d rising clock edges, want %d", code, len(bits), FrameBits+1)
		}
		got, err := Decode(bits[:FrameBits])
		if err != nil {
			t.Fatal(err)
		}
		if got != code {
			t.Errorf("decoded %d, sent %d", got, code)
		}

		// One hold after start, two per bit, two for stop.
		holds := s.holds()
		if len(holds) != 1+2*FrameBits+2 {
			t.Errorf("got %d holds", len(holds))
		}
		for _, d := range holds {
			if d != DefaultHalfPeriod {
				t.Fatalf("hold of %s", d)
			}
		}
	}
}

func TestTransmitClamps(t *testing.T) {
	s, b := newScope(t)
	if err := b.Transmit(0); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(s.sample()[:FrameBits])
	if err != nil {
		t.Fatal(err)
	}
	if got != MinCode {
		t.Errorf("got %d want %d", got, MinCode)
	}
}

func TestTransmitError(t *testing.T) {
	s, b := newScope(t)
	s.fail = 10
	if err := b.Transmit(1000); err == nil {
		t.Fatal("expected error")
	}
	s.fail = 0
	s.log = nil
	if err := b.Transmit(1000); err != nil {
		t.Fatal(err)
	}
	if got, _ := Decode(s.sample()[:FrameBits]); got != 1000 {
		t.Errorf("got %d after recovery", got)
	}
}

func TestHalt(t *testing.T) {
	clk, dat := &gpiotest.Pin{N: "CLK"}, &gpiotest.Pin{N: "DAT"}
	b, err := New(clk, dat, &Opts{Delay: func(time.Duration) {}})
	if err != nil {
		t.Fatal(err)
	}
	_ = clk.Out(gpio.Low)
	_ = dat.Out(gpio.Low)
	if err := b.Halt(); err != nil {
		t.Fatal(err)
	}
	if clk.Read() != gpio.High || dat.Read() != gpio.High {
		t.Error("expected idle-high after Halt")
	}
}

func TestBusyWait(t *testing.T) {
	start := time.Now()
	BusyWait(50 * time.Microsecond)
	if d := time.Since(start); d < 50*time.Microsecond {
		t.Errorf("BusyWait returned after %s", d)
	}
}
