// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tn05 provides a driver for the TN-05 module of the Tangible
// Networks kit.
//
// A module has six input jacks, one output jack, a potentiometer, a push
// switch, two DIP switches, an RGB indicator LED and a connector for a
// master controller (one analog line and one switch line).
//
// Readings are conditioned into a caller chosen Range, [0, 1] by default.
// An input jack with nothing plugged in floats to the top of the ADC scale;
// such a jack reads as Min (analog) or 0 (digital). Every numeric argument
// is clamped into its valid domain: out of range channel numbers select the
// nearest valid channel, out of range values saturate.
//
// The output jack is driven by a 12-bit DAC on a bit-banged two-wire bus;
// see package dacwire.
//
// # Wiring
//
// The module is built around an ATmega328. With StandardFirmata loaded, a
// host can drive it through FirmataPins. Any other set of periph.io lines
// can be used by filling a PinMap.
package tn05
