// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firmata implements the host side of the Firmata protocol, enough
// to drive the GPIO, PWM and ADC lines of an Arduino class board running
// StandardFirmata as periph.io pins.
//
// Digital lines are exposed as gpio.PinIO and analog inputs as
// analog.PinADC. Pin values are reported by the board asynchronously; the
// client keeps the last reported value of every line and pins return it.
//
// # Protocol
//
// https://github.com/firmata/protocol/blob/master/protocol.md
package firmata
