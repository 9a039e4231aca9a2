// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dacwire drives the output DAC of a TN-05 module over two
// bit-banged GPIO lines.
//
// The DAC is a single 12-bit device on a dedicated two-wire bus. Every
// write is the same fixed 27 clock frame: an 8 bit command header, a
// framing slot, 4 reserved bits, the high nibble of the code, a framing
// slot, the low byte of the code and a trailing slot. The framing slots
// are clocked with DATA released high and nothing is ever read back, so a
// write cannot fail at the protocol level.
//
// Each clock phase is held for a fixed half period (5µs by default). The
// holds are real elapsed time: the default delay spins with cpu.Nanospin
// since time.Sleep cannot honour microsecond holds on most hosts.
//
// # Frame
//
//	start   DATA low, hold, CLOCK low
//	bits    1 1 0 0 0 0 0 0 | 1 | 0 0 0 0 | c11..c8 | 1 | c7..c0 | 1
//	stop    CLOCK high, hold, DATA high, hold
package dacwire
