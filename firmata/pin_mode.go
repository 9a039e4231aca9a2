// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"periph.io/x/conn/v3/pin"
)

// Pin functions used by the client. The board supports more modes; they
// are not needed to drive plain GPIO, PWM and ADC lines.
const (
	PinFuncDigitalInput  pin.Func = "Digital Input"
	PinFuncDigitalOutput pin.Func = "Digital Output"
	PinFuncAnalogInput   pin.Func = "Analog Input"
	PinFuncPWM           pin.Func = "PWM"
	PinFuncInputPullUp   pin.Func = "Input Pull-Up"
)

var pinFuncToMode = map[pin.Func]uint8{
	PinFuncDigitalInput:  0x0,
	PinFuncDigitalOutput: 0x1,
	PinFuncAnalogInput:   0x2,
	PinFuncPWM:           0x3,
	PinFuncInputPullUp:   0xB,
}
