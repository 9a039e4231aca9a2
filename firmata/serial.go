// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// DefaultBaud is the baud rate used by StandardFirmata.
const DefaultBaud = 57600

// OpenSerial opens the serial port connected to a board. A baud of 0 means
// DefaultBaud.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	p, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("firmata: failed to open serial port %s: %w", name, err)
	}
	return p, nil
}
