// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"errors"
)

var (
	ErrDeviceDisconnected      = errors.New("firmata: device disconnected")
	ErrAlreadyStarted          = errors.New("firmata: client already started")
	ErrNotStarted              = errors.New("firmata: client not started")
	ErrNoFirmware              = errors.New("firmata: no firmware report received")
	ErrNoDataRead              = errors.New("firmata: no value reported by the board")
	ErrInvalidMessageTypeStart = errors.New("firmata: invalid message type start")
	ErrValueOutOfRange         = errors.New("firmata: value is out of range")
	ErrUnsupportedGPIOPull     = errors.New("firmata: PullDown is not supported")
	ErrUnsupportedEdge         = errors.New("firmata: edge detection is not supported on this line")
	ErrUnsupportedPinFunc      = errors.New("firmata: unsupported pin function")
)
