// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

// MessageType is the command byte starting every Firmata message. The
// channel messages carry the pin or port number in their low nibble.
type MessageType uint8

const (
	AnalogIOMessage    MessageType = 0xE0 // pin, LSB, MSB
	DigitalIOMessage   MessageType = 0x90 // port, LSB, MSB
	ReportAnalogPin    MessageType = 0xC0 // pin, enable
	ReportDigitalPort  MessageType = 0xD0 // port, enable
	StartSysEx         MessageType = 0xF0
	SetPinMode         MessageType = 0xF4 // pin, mode
	SetDigitalPinValue MessageType = 0xF5 // pin, value
	EndSysEx           MessageType = 0xF7
	ProtocolVersion    MessageType = 0xF9 // major, minor
	SystemReset        MessageType = 0xFF
)

var messageTypeNames = map[MessageType]string{
	AnalogIOMessage:    "AnalogIOMessage",
	DigitalIOMessage:   "DigitalIOMessage",
	ReportAnalogPin:    "ReportAnalogPin",
	ReportDigitalPort:  "ReportDigitalPort",
	StartSysEx:         "StartSysEx",
	SetPinMode:         "SetPinMode",
	SetDigitalPinValue: "SetDigitalPinValue",
	EndSysEx:           "EndSysEx",
	ProtocolVersion:    "ProtocolVersion",
	SystemReset:        "SystemReset",
}

// channel returns the message type with the channel nibble cleared, for
// the types that carry one.
func (m MessageType) channel() MessageType {
	switch m & 0xF0 {
	case AnalogIOMessage, DigitalIOMessage, ReportAnalogPin, ReportDigitalPort:
		return m & 0xF0
	}
	return m
}

func (m MessageType) String() string {
	if v, ok := messageTypeNames[m.channel()]; ok {
		return v
	}
	return "Unknown"
}

// SysExCmd is the first byte of a SysEx message payload.
type SysExCmd uint8

const (
	SysExExtendedAnalog   SysExCmd = 0x6F // analog write to any pin
	SysExStringData       SysExCmd = 0x71 // string, 14 bits per char
	SysExReportFirmware   SysExCmd = 0x79 // firmware name and version
	SysExSamplingInterval SysExCmd = 0x7A // analog sampling interval in ms
)
