// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

const (
	// Channels is the number of analog channels and digital ports that
	// can be reported.
	Channels = 16

	startTimeout  = 5 * time.Second
	reportTimeout = time.Second
)

// Client talks to a board running StandardFirmata.
type Client struct {
	board io.ReadWriteCloser

	// mu serializes writes to the board.
	mu      sync.Mutex
	started bool

	stateMu  sync.Mutex
	version  [2]byte
	firmware FirmwareReport
	analog   [Channels]uint16
	ports    [Channels]byte
	// analogSeen and portSeen are closed on the first report of a channel.
	analogSeen [Channels]chan struct{}
	portSeen   [Channels]chan struct{}
	edges      map[uint8]chan gpio.Level
	pins       map[uint8]*Pin
	analogPins map[uint8]*AnalogPin
	err        error

	firmCh chan FirmwareReport
	done   chan struct{}
}

// NewClient returns a client for the board. Call Start before using it.
func NewClient(board io.ReadWriteCloser) *Client {
	c := &Client{
		board:      board,
		edges:      map[uint8]chan gpio.Level{},
		pins:       map[uint8]*Pin{},
		analogPins: map[uint8]*AnalogPin{},
		firmCh:     make(chan FirmwareReport, 1),
		done:       make(chan struct{}),
	}
	for i := range Channels {
		c.analogSeen[i] = make(chan struct{})
		c.portSeen[i] = make(chan struct{})
	}
	return c
}

type flusher interface {
	Flush() error
}

// Start begins processing the board reports and waits for the firmware
// report.
func (c *Client) Start() error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	if f, ok := c.board.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("firmata: %w", err)
		}
	}
	go c.watch()

	// Boards report their firmware when they reset, which not every host
	// triggers when opening the port. Ask explicitly.
	if err := c.sendSysEx(SysExReportFirmware); err != nil {
		return err
	}
	select {
	case r := <-c.firmCh:
		c.stateMu.Lock()
		c.firmware = r
		c.stateMu.Unlock()
		return nil
	case <-c.done:
		return c.Err()
	case <-time.After(startTimeout):
		return ErrNoFirmware
	}
}

// Close closes the connection to the board.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	return c.board.Close()
}

// Err returns the error that stopped report processing, if any.
func (c *Client) Err() error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.err
}

// Firmware returns the firmware report received by Start.
func (c *Client) Firmware() FirmwareReport {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.firmware
}

// Version returns the protocol version reported by the board, if any.
func (c *Client) Version() (major, minor byte) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.version[0], c.version[1]
}

// Pin returns digital line n of the board.
func (c *Client) Pin(n uint8) *Pin {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	p := c.pins[n]
	if p == nil {
		p = &Pin{c: c, num: n, pull: gpio.PullNoChange}
		c.pins[n] = p
	}
	return p
}

// AnalogPin returns analog input channel ch of the board.
func (c *Client) AnalogPin(ch uint8) (*AnalogPin, error) {
	if ch >= Channels {
		return nil, fmt.Errorf("%w: analog channel %d", ErrValueOutOfRange, ch)
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	p := c.analogPins[ch]
	if p == nil {
		p = &AnalogPin{c: c, ch: ch}
		c.analogPins[ch] = p
	}
	return p, nil
}

func (c *Client) write(payload ...byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}
	if _, err := c.board.Write(payload); err != nil {
		return fmt.Errorf("firmata: %w", err)
	}
	return nil
}

func (c *Client) sendSysEx(cmd SysExCmd, payload ...byte) error {
	msg := make([]byte, 0, len(payload)+3)
	msg = append(msg, byte(StartSysEx), byte(cmd))
	msg = append(msg, payload...)
	return c.write(append(msg, byte(EndSysEx))...)
}

// SendReset resets the board to its power-up state.
func (c *Client) SendReset() error {
	return c.write(byte(SystemReset))
}

// SetPinMode sets the function of digital line p.
func (c *Client) SetPinMode(p uint8, f pin.Func) error {
	mode, ok := pinFuncToMode[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedPinFunc, f)
	}
	return c.write(byte(SetPinMode), p&sevenBitMask, mode)
}

// SetDigitalPinValue drives digital line p.
func (c *Client) SetDigitalPinValue(p uint8, l gpio.Level) error {
	v := byte(0)
	if l {
		v = 1
	}
	return c.write(byte(SetDigitalPinValue), p&sevenBitMask, v)
}

// SetAnalogPinReporting enables or disables the reports of analog channel
// ch.
func (c *Client) SetAnalogPinReporting(ch uint8, report bool) error {
	return c.write(byte(ReportAnalogPin)|ch&0xF, boolByte(report))
}

// SetDigitalPortReporting enables or disables the reports of a port of 8
// digital lines.
func (c *Client) SetDigitalPortReporting(port uint8, report bool) error {
	return c.write(byte(ReportDigitalPort)|port&0xF, boolByte(report))
}

// SetSamplingInterval sets the period of analog reports.
func (c *Client) SetSamplingInterval(d time.Duration) error {
	ms := d.Milliseconds()
	if ms <= 0 || ms > int64(MaxUInt14) {
		return fmt.Errorf("%w: sampling interval %s", ErrValueOutOfRange, d)
	}
	lsb, msb := WordToTwoByte(uint16(ms))
	return c.sendSysEx(SysExSamplingInterval, lsb, msb)
}

// AnalogWrite sets the PWM value of line p. Lines above 15 use the
// extended analog message.
func (c *Client) AnalogWrite(p uint8, v uint16) error {
	if v > MaxUInt14 {
		return fmt.Errorf("%w: analog value %d", ErrValueOutOfRange, v)
	}
	lsb, msb := WordToTwoByte(v)
	if p < Channels {
		return c.write(byte(AnalogIOMessage)|p, lsb, msb)
	}
	return c.sendSysEx(SysExExtendedAnalog, p&sevenBitMask, lsb, msb)
}

// analogValue returns the last value reported for channel ch, waiting for
// the first report when needed.
func (c *Client) analogValue(ch uint8) (uint16, error) {
	if err := c.wait(c.analogSeen[ch]); err != nil {
		return 0, fmt.Errorf("%w: analog channel %d", err, ch)
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.analog[ch], nil
}

// level returns the last reported level of digital line p.
func (c *Client) level(p uint8) gpio.Level {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.ports[(p/8)%Channels]&(1<<(p%8)) != 0
}

func (c *Client) wait(seen chan struct{}) error {
	select {
	case <-seen:
		return nil
	case <-c.done:
		if err := c.Err(); err != nil {
			return err
		}
		return ErrDeviceDisconnected
	case <-time.After(reportTimeout):
		return ErrNoDataRead
	}
}

func (c *Client) setEdgeListener(p uint8, ch chan gpio.Level) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if ch == nil {
		delete(c.edges, p)
		return
	}
	c.edges[p] = ch
}

func (c *Client) watch() {
	err := c.readLoop(bufio.NewReader(c.board))
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		err = ErrDeviceDisconnected
	}
	c.stateMu.Lock()
	c.err = err
	c.stateMu.Unlock()
	close(c.done)
}

func (c *Client) readLoop(r *bufio.Reader) error {
	var buf [2]byte
	for {
		b0, err := r.ReadByte()
		if err != nil {
			return err
		}
		// Data bytes outside of a message happen when the stream is joined
		// mid-message; skip them until the next command byte.
		if b0&0x80 == 0 {
			continue
		}
		mt := MessageType(b0)
		switch mt.channel() {
		case ProtocolVersion:
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return err
			}
			c.stateMu.Lock()
			c.version = buf
			c.stateMu.Unlock()
		case AnalogIOMessage:
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return err
			}
			c.onAnalog(b0&0xF, TwoByteToWord(buf[0], buf[1]))
		case DigitalIOMessage:
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return err
			}
			c.onPort(b0&0xF, TwoByteToByte(buf[0], buf[1]))
		case StartSysEx:
			data, err := r.ReadBytes(byte(EndSysEx))
			if err != nil {
				return err
			}
			if len(data) < 2 {
				continue
			}
			if SysExCmd(data[0]) == SysExReportFirmware {
				select {
				case c.firmCh <- parseFirmwareReport(data[1 : len(data)-1]):
				default:
				}
			}
			// Other SysEx replies are answers to queries this client never
			// sends, or free form strings.
		default:
			return fmt.Errorf("%w: 0x%02X", ErrInvalidMessageTypeStart, b0)
		}
	}
}

func (c *Client) onAnalog(ch uint8, v uint16) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.analog[ch] = v
	select {
	case <-c.analogSeen[ch]:
	default:
		close(c.analogSeen[ch])
	}
}

func (c *Client) onPort(port, v byte) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	changed := c.ports[port] ^ v
	c.ports[port] = v
	for i := range uint8(8) {
		if changed&(1<<i) == 0 {
			continue
		}
		if ch := c.edges[port*8+i]; ch != nil {
			select {
			case ch <- gpio.Level(v&(1<<i) != 0):
			default:
			}
		}
	}
	// Closed after the edges are queued so In can discard them.
	select {
	case <-c.portSeen[port]:
	default:
		close(c.portSeen[port])
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
