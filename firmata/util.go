// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

// Firmata data bytes carry 7 bits; the MSB is reserved for command bytes.
const sevenBitMask byte = 0x7F

// MaxUInt14 is the largest value a two byte Firmata field can hold.
const MaxUInt14 uint16 = 1<<14 - 1

// TwoByteToByte joins a LSB/MSB pair of data bytes into a byte.
func TwoByteToByte(lsb, msb byte) byte {
	return (lsb & sevenBitMask) | (msb&sevenBitMask)<<7
}

// TwoByteToWord joins a LSB/MSB pair of data bytes into a 14 bit word.
func TwoByteToWord(lsb, msb byte) uint16 {
	return uint16(lsb&sevenBitMask) | uint16(msb&sevenBitMask)<<7
}

// ByteToTwoByte splits b into a LSB/MSB pair of data bytes.
func ByteToTwoByte(b byte) (lsb, msb byte) {
	return b & sevenBitMask, b >> 7
}

// WordToTwoByte splits the low 14 bits of w into a LSB/MSB pair of data
// bytes.
func WordToTwoByte(w uint16) (lsb, msb byte) {
	return byte(w) & sevenBitMask, byte(w>>7) & sevenBitMask
}

// TwoByteString decodes a string sent as LSB/MSB pairs. A trailing odd byte
// is treated as a LSB with a zero MSB.
func TwoByteString(data []byte) string {
	s := make([]byte, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		msb := byte(0)
		if i+1 < len(data) {
			msb = data[i+1]
		}
		s = append(s, TwoByteToByte(data[i], msb))
	}
	return string(s)
}

// StringToTwoByte encodes s as LSB/MSB pairs.
func StringToTwoByte(s string) []byte {
	d := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		lsb, msb := ByteToTwoByte(s[i])
		d = append(d, lsb, msb)
	}
	return d
}
