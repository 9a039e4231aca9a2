// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tn05

import (
	"github.com/TangibleNetworks/Lib-05/firmata"
)

// FirmataWiring lists the board lines of every module signal. Analog
// signals are analog channel numbers; the others are digital line numbers.
type FirmataWiring struct {
	Inputs       [Inputs]uint8
	Pot          uint8
	MasterAnalog uint8
	MasterSwitch uint8
	Dip          [Dips]uint8
	Switch       uint8
	LED          [3]uint8
	DACClock     uint8
	DACData      uint8
}

// DefaultFirmataPins is the wiring of the module PCB.
var DefaultFirmataPins = FirmataWiring{
	Inputs:       [Inputs]uint8{0, 1, 2, 3, 4, 5},
	Pot:          7,
	MasterAnalog: 6,
	MasterSwitch: 4,
	Dip:          [Dips]uint8{13, 12},
	Switch:       2,
	LED:          [3]uint8{11, 6, 5},
	DACClock:     8,
	DACData:      7,
}

// FirmataPins returns the PinMap of a module running StandardFirmata. A nil
// w means DefaultFirmataPins.
//
// The input jacks sit on analog channels, which cannot be read as digital
// lines at the same time; their digital view is derived from the analog
// samples.
func FirmataPins(c *firmata.Client, w *FirmataWiring) (*PinMap, error) {
	if w == nil {
		w = &DefaultFirmataPins
	}
	p := &PinMap{}
	for i, ch := range w.Inputs {
		a, err := c.AnalogPin(ch)
		if err != nil {
			return nil, err
		}
		p.Analog[i] = a
		p.Digital[i] = a.Level()
	}
	var err error
	if p.Pot, err = c.AnalogPin(w.Pot); err != nil {
		return nil, err
	}
	if p.MasterAnalog, err = c.AnalogPin(w.MasterAnalog); err != nil {
		return nil, err
	}
	p.MasterSwitch = c.Pin(w.MasterSwitch)
	for i, n := range w.Dip {
		p.Dip[i] = c.Pin(n)
	}
	p.Switch = c.Pin(w.Switch)
	for i, n := range w.LED {
		p.LED[i] = c.Pin(n)
	}
	p.DACClock = c.Pin(w.DACClock)
	p.DACData = c.Pin(w.DACData)
	return p, nil
}
