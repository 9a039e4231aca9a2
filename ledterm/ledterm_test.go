// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledterm

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func render(c color.NRGBA) string {
	return "\r\033[0m" + ansi256.Default.Block(c) + "\033[0m "
}

func TestPWM(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	led := d.LED()
	if err := led[0].PWM(gpio.DutyMax, 490*physic.Hertz); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), render(color.NRGBA{255, 0, 0, 255}); got != want {
		t.Fatalf("%q != %q", got, want)
	}
	buf.Reset()
	if err := led[2].PWM(gpio.DutyHalf, 0); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), render(color.NRGBA{255, 0, 127, 255}); got != want {
		t.Fatalf("%q != %q", got, want)
	}
	if err := led[1].PWM(gpio.DutyMax+1, 0); err == nil {
		t.Fatal("expected error")
	}
	if c := d.Color(); c != (color.NRGBA{255, 0, 127, 255}) {
		t.Fatalf("Color()=%v", c)
	}
}

func TestOut(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	led := d.LED()
	if err := led[1].Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if c := d.Color(); c != (color.NRGBA{0, 255, 0, 255}) {
		t.Fatalf("Color()=%v", c)
	}
	if err := led[1].Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if c := d.Color(); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("Color()=%v", c)
	}
}

func TestChannelNames(t *testing.T) {
	d := New(&Opts{W: &bytes.Buffer{}})
	for i, want := range []string{"R", "G", "B"} {
		c := d.ch[i]
		if c.String() != want || c.Number() != i || c.Func() != gpio.PWM {
			t.Errorf("%d: %s %d %s", i, c, c.Number(), c.Func())
		}
	}
	if d.String() != "LEDTerm" {
		t.Error(d.String())
	}
}

type line struct {
	gpiotest.Pin
	duty gpio.Duty
	err  error
}

func (l *line) PWM(duty gpio.Duty, f physic.Frequency) error {
	if l.err != nil {
		return l.err
	}
	l.duty = duty
	return nil
}

func TestMirror(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	hw := [3]*line{{Pin: gpiotest.Pin{N: "LED_R"}}, {Pin: gpiotest.Pin{N: "LED_G"}}, {Pin: gpiotest.Pin{N: "LED_B"}}}
	m := d.Mirror([3]gpio.PinOut{hw[0], hw[1], hw[2]})
	if err := m[0].PWM(gpio.DutyMax, 0); err != nil {
		t.Fatal(err)
	}
	if hw[0].duty != gpio.DutyMax {
		t.Fatalf("hardware duty %s", hw[0].duty)
	}
	if c := d.Color(); c.R != 255 {
		t.Fatalf("Color()=%v", c)
	}
	if m[1].Name() != "LED_G" {
		t.Fatalf("Name()=%s", m[1].Name())
	}

	// A failing hardware line leaves the preview untouched.
	hw[2].err = errors.New("bus")
	buf.Reset()
	if err := m[2].PWM(gpio.DutyMax, 0); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 || d.Color().B != 0 {
		t.Fatalf("preview updated: %q", buf.String())
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n\033[0m" {
		t.Fatalf("%q", buf.String())
	}
}
