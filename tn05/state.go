// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tn05

import (
	"fmt"
	"io"
	"strings"
)

// State is the last value observed or written by each operation of a Dev.
type State struct {
	Colour       [3]uint8
	Ins          [Inputs]float64
	Out          float64
	Pot          float64
	MasterAnalog float64
	MasterSwitch bool
	Dips         [Dips]bool
	Switch       bool
}

// String renders the state on a single line.
func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RGB: %d, %d, %d", s.Colour[0], s.Colour[1], s.Colour[2])
	b.WriteString(", Ins:")
	for _, v := range s.Ins {
		fmt.Fprintf(&b, " %.2f", v)
	}
	fmt.Fprintf(&b, ", Out: %.2f, Pot: %.2f, mstr_A: %.2f, mstr_D: %d", s.Out, s.Pot, s.MasterAnalog, bit(s.MasterSwitch))
	fmt.Fprintf(&b, ", DIPs: %d %d, Sw: %d", bit(s.Dips[0]), bit(s.Dips[1]), bit(s.Switch))
	return b.String()
}

// State returns a copy of the cached state. It does not touch the hardware.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// PrintState writes the cached state to w, followed by a newline.
func (d *Dev) PrintState(w io.Writer) error {
	_, err := fmt.Fprintln(w, d.State())
	return err
}

// Refresh samples every input once and returns the resulting state.
func (d *Dev) Refresh() (State, error) {
	for i := range Inputs {
		if _, err := d.ReadAnalog(i); err != nil {
			return State{}, err
		}
	}
	if _, err := d.Pot(); err != nil {
		return State{}, err
	}
	if _, err := d.ReadMaster(); err != nil {
		return State{}, err
	}
	if _, err := d.MasterSwitch(); err != nil {
		return State{}, err
	}
	for i := range Dips {
		if _, err := d.Dip(i); err != nil {
			return State{}, err
		}
	}
	if _, err := d.Switch(); err != nil {
		return State{}, err
	}
	return d.State(), nil
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
