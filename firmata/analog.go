// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// ADCMax is the full scale of the board ADC.
	ADCMax = 1023
	// VRef is the ADC reference of a 5V board.
	VRef = 5 * physic.Volt
)

// AnalogPin is an analog input channel of the board.
type AnalogPin struct {
	c  *Client
	ch uint8

	mu sync.Mutex
	// reporting is set once the channel reports have been enabled.
	reporting bool
}

// Read returns the last sample reported by the board. The first call
// enables the channel reports and waits for the first sample.
func (a *AnalogPin) Read() (analog.Sample, error) {
	if err := a.enable(); err != nil {
		return analog.Sample{}, err
	}
	v, err := a.c.analogValue(a.ch)
	if err != nil {
		return analog.Sample{}, err
	}
	return analog.Sample{V: VRef * physic.ElectricPotential(v) / ADCMax, Raw: int32(v)}, nil
}

// enable turns the channel reports on. A failed attempt is retried on the
// next call.
func (a *AnalogPin) enable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reporting {
		return nil
	}
	if err := a.c.SetPinMode(a.c.analogToDigital(a.ch), PinFuncAnalogInput); err != nil {
		return err
	}
	if err := a.c.SetAnalogPinReporting(a.ch, true); err != nil {
		return err
	}
	a.reporting = true
	return nil
}

// Range returns the sample at 0V and at VRef.
func (a *AnalogPin) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{V: VRef, Raw: ADCMax}
}

// Level returns a digital view of the channel. It reads High from mid
// scale up, which lets analog-only lines stand in for digital inputs.
func (a *AnalogPin) Level() gpio.PinIn {
	return &analogLevel{a: a}
}

// Halt disables the channel reports. The next Read enables them again.
func (a *AnalogPin) Halt() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.c.SetAnalogPinReporting(a.ch, false); err != nil {
		return err
	}
	a.reporting = false
	return nil
}

// Name returns the Arduino name of the channel, "A<n>".
func (a *AnalogPin) Name() string {
	return fmt.Sprintf("A%d", a.ch)
}

func (a *AnalogPin) String() string {
	return a.Name()
}

// Number returns the analog channel number.
func (a *AnalogPin) Number() int {
	return int(a.ch)
}

// Deprecated: returns "Analog Input".
func (a *AnalogPin) Function() string {
	return string(PinFuncAnalogInput)
}

// analogToDigital maps an analog channel to its digital line number on the
// ATmega328 boards, where A0 is D14.
func (c *Client) analogToDigital(ch uint8) uint8 {
	return ch + 14
}

type analogLevel struct {
	a *AnalogPin
}

func (l *analogLevel) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.Float && pull != gpio.PullNoChange {
		return ErrUnsupportedGPIOPull
	}
	if edge != gpio.NoEdge {
		return ErrUnsupportedEdge
	}
	return nil
}

func (l *analogLevel) Read() gpio.Level {
	s, err := l.a.Read()
	if err != nil {
		return gpio.Low
	}
	return s.Raw > ADCMax/2
}

func (l *analogLevel) WaitForEdge(time.Duration) bool {
	return false
}

func (l *analogLevel) Pull() gpio.Pull {
	return gpio.Float
}

func (l *analogLevel) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (l *analogLevel) Halt() error {
	return nil
}

func (l *analogLevel) Name() string {
	return l.a.Name()
}

func (l *analogLevel) String() string {
	return l.a.Name()
}

func (l *analogLevel) Number() int {
	return l.a.Number()
}

func (l *analogLevel) Function() string {
	return string(PinFuncDigitalInput)
}

var _ analog.PinADC = &AnalogPin{}
var _ gpio.PinIn = &analogLevel{}
