// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tn05test is meant to be used to test drivers using analog inputs
// the way the TN-05 reads them.
package tn05test

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// FullScale is the raw sample at VRef.
const FullScale = 1023

// VRef is the reference voltage of the simulated ADC.
const VRef = 5 * physic.Volt

// ADC implements analog.PinADC.
//
// Modify its members to simulate hardware events. Grab the Mutex before
// accessing Raw or Err from another goroutine.
type ADC struct {
	// These should be immutable.
	N   string
	Num int

	sync.Mutex
	// Raw is returned by the next Read.
	Raw int32
	// Err, if set, is returned by Read instead of a sample.
	Err error
	// Reads counts the calls to Read.
	Reads int
}

// Set changes the raw sample returned by Read.
func (a *ADC) Set(raw int32) {
	a.Lock()
	defer a.Unlock()
	a.Raw = raw
}

func (a *ADC) String() string {
	return fmt.Sprintf("%s(%d)", a.N, a.Num)
}

// Halt implements conn.Resource.
func (a *ADC) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (a *ADC) Name() string {
	return a.N
}

// Number implements pin.Pin.
func (a *ADC) Number() int {
	return a.Num
}

// Function implements pin.Pin.
func (a *ADC) Function() string {
	return "ADC"
}

// Range implements analog.PinADC.
func (a *ADC) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{V: VRef, Raw: FullScale}
}

// Read implements analog.PinADC.
func (a *ADC) Read() (analog.Sample, error) {
	a.Lock()
	defer a.Unlock()
	a.Reads++
	if a.Err != nil {
		return analog.Sample{}, a.Err
	}
	return analog.Sample{V: VRef * physic.ElectricPotential(a.Raw) / FullScale, Raw: a.Raw}, nil
}

var _ analog.PinADC = &ADC{}
