// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tn05

import (
	"errors"
	"math"

	"github.com/TangibleNetworks/Lib-05/dacwire"
)

// RawMax is the full scale reading of the 10-bit ADC.
const RawMax = 1023

var errInvalidRange = errors.New("tn05: range must satisfy Min < Max")

// Range is the physical unit domain of the analog inputs and the output of
// a module. Min must be strictly lower than Max.
type Range struct {
	Min float64
	Max float64
}

// DefaultRange is used when Opts.Range is the zero value.
var DefaultRange = Range{Min: 0, Max: 1}

func (r Range) validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) || r.Min >= r.Max {
		return errInvalidRange
	}
	// The span must be representable for Code to stay monotonic.
	if math.IsInf(r.Max-r.Min, 0) {
		return errInvalidRange
	}
	return nil
}

// Clamp saturates v into [Min, Max]. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Code returns the DAC code for v. v is clamped into the range first, so
// the result is always within [dacwire.MinCode, dacwire.MaxCode] and
// monotonic in v.
func (r Range) Code(v float64) uint16 {
	v = r.Clamp(v)
	c := math.Floor(float64(dacwire.MinCode) + float64(dacwire.CodeSpan)*(v-r.Min)/(r.Max-r.Min))
	if c < float64(dacwire.MinCode) {
		return dacwire.MinCode
	}
	if c > float64(dacwire.MaxCode) {
		return dacwire.MaxCode
	}
	return uint16(c)
}

// Value is the inverse of Code: the physical value at the bottom of the
// code step.
func (r Range) Value(code uint16) float64 {
	code = dacwire.ClampCode(code)
	return r.Min + (r.Max-r.Min)*float64(code-dacwire.MinCode)/float64(dacwire.CodeSpan)
}

// Step is the width of one DAC code in physical units.
func (r Range) Step() float64 {
	return (r.Max - r.Min) / float64(dacwire.CodeSpan)
}

// scale maps a fraction in [0, 1] onto the range.
func (r Range) scale(f float64) float64 {
	return r.Clamp(r.Min + (r.Max-r.Min)*f)
}

// Calibration describes how raw samples of one kind of input line map to a
// normalized reading. The constants were measured on the hardware.
type Calibration struct {
	// Threshold is the raw sample at and above which nothing is plugged
	// in. An open jack floats to the top of the scale.
	Threshold int
	// Offset is the raw sample of the lowest valid signal.
	Offset int
	// Span is the number of raw steps from Offset to full scale.
	Span int
}

var (
	// JackCalibration applies to the six input jacks.
	JackCalibration = Calibration{Threshold: 990, Offset: 51, Span: 922}
	// MasterCalibration applies to the analog line of the master bus.
	MasterCalibration = Calibration{Threshold: 1010, Offset: 102, Span: 819}
)

// Connected reports whether raw indicates a plugged line.
func (c Calibration) Connected(raw int) bool {
	return raw < c.Threshold
}

// Fraction returns (raw-Offset)/Span saturated into [0, 1].
func (c Calibration) Fraction(raw int) float64 {
	f := float64(raw-c.Offset) / float64(c.Span)
	return math.Min(math.Max(f, 0), 1)
}

// clampRaw saturates a sample into the 10-bit ADC scale.
func clampRaw(raw int32) int {
	if raw < 0 {
		return 0
	}
	if raw > RawMax {
		return RawMax
	}
	return int(raw)
}

// clampIndex saturates i into [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
