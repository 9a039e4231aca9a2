// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledterm renders an RGB indicator LED to a terminal using ANSI
// color codes.
//
// The LED is driven through three gpio.PinOut channels, so it can stand in
// for, or mirror, the PWM lines of a real indicator.
package ledterm

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Opts represents the options available for this display.
type Opts struct {
	// W receives the output. Nil means stdout.
	W       io.Writer
	Palette *ansi256.Palette
}

// Dev is an RGB LED emulator that outputs to the console.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	palette ansi256.Palette
	rgb     [3]uint8
	ch      [3]*Channel
	buf     bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{w: opts.W, palette: *p}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	for i := range d.ch {
		d.ch[i] = &Channel{d: d, i: i}
	}
	return d
}

// LED returns the red, green and blue channels.
func (d *Dev) LED() [3]gpio.PinOut {
	return [3]gpio.PinOut{d.ch[0], d.ch[1], d.ch[2]}
}

// Mirror returns lines that drive both leds and the matching channels of d.
func (d *Dev) Mirror(leds [3]gpio.PinOut) [3]gpio.PinOut {
	var m [3]gpio.PinOut
	for i, l := range leds {
		m[i] = &mirror{PinOut: l, ch: d.ch[i]}
	}
	return m
}

// Color returns the displayed color.
func (d *Dev) Color() color.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return color.NRGBA{d.rgb[0], d.rgb[1], d.rgb[2], 255}
}

func (d *Dev) String() string {
	return "LEDTerm"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes and moves to the next line.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := io.WriteString(d.w, "\n\033[0m")
	return err
}

func (d *Dev) set(i int, v uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rgb[i] = v
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	_, _ = d.buf.WriteString(d.palette.Block(color.NRGBA{d.rgb[0], d.rgb[1], d.rgb[2], 255}))
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Channel is one color component of the LED.
type Channel struct {
	d *Dev
	i int
}

// Out sets the component to full scale or off.
func (c *Channel) Out(l gpio.Level) error {
	if l {
		return c.d.set(c.i, math.MaxUint8)
	}
	return c.d.set(c.i, 0)
}

// PWM sets the component proportionally to duty. f is ignored.
func (c *Channel) PWM(duty gpio.Duty, f physic.Frequency) error {
	if duty < 0 || duty > gpio.DutyMax {
		return fmt.Errorf("ledterm: invalid duty %s", duty)
	}
	return c.d.set(c.i, uint8(int64(duty)*math.MaxUint8/int64(gpio.DutyMax)))
}

func (c *Channel) String() string {
	return c.Name()
}

// Halt implements conn.Resource.
func (c *Channel) Halt() error {
	return nil
}

// Name returns "R", "G" or "B".
func (c *Channel) Name() string {
	return "RGB"[c.i : c.i+1]
}

// Number returns the component index.
func (c *Channel) Number() int {
	return c.i
}

// Deprecated: Use Func.
func (c *Channel) Function() string {
	return string(c.Func())
}

// Func returns gpio.PWM.
func (c *Channel) Func() pin.Func {
	return gpio.PWM
}

type mirror struct {
	gpio.PinOut
	ch *Channel
}

func (m *mirror) Out(l gpio.Level) error {
	if err := m.PinOut.Out(l); err != nil {
		return err
	}
	return m.ch.Out(l)
}

func (m *mirror) PWM(duty gpio.Duty, f physic.Frequency) error {
	if err := m.PinOut.PWM(duty, f); err != nil {
		return err
	}
	return m.ch.PWM(duty, f)
}

var _ conn.Resource = &Dev{}
var _ gpio.PinOut = &Channel{}
