// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"fmt"
)

// FirmwareReport is the name and version of the sketch running on the
// board.
type FirmwareReport struct {
	Major byte
	Minor byte
	Name  string
}

func parseFirmwareReport(data []byte) FirmwareReport {
	var r FirmwareReport
	if len(data) >= 2 {
		r.Major, r.Minor = data[0], data[1]
		r.Name = TwoByteString(data[2:])
	}
	return r
}

func (r FirmwareReport) String() string {
	return fmt.Sprintf("%s [%d.%d]", r.Name, r.Major, r.Minor)
}
