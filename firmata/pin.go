// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firmata

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// pwmMax is the full scale of the board PWM outputs.
const pwmMax = 255

// Pin is a digital line of the board.
type Pin struct {
	c   *Client
	num uint8

	mu    sync.Mutex
	fn    pin.Func
	pull  gpio.Pull
	edge  gpio.Edge
	edges chan gpio.Level
}

// In configures the line as an input and enables the reports of its port.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	fn := PinFuncDigitalInput
	switch pull {
	case gpio.PullDown:
		return ErrUnsupportedGPIOPull
	case gpio.PullUp:
		fn = PinFuncInputPullUp
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.setFunc(fn); err != nil {
		return err
	}
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.edge = edge
	if edge == gpio.NoEdge {
		p.edges = nil
	} else if p.edges == nil {
		p.edges = make(chan gpio.Level, 1)
	}
	p.c.setEdgeListener(p.num, p.edges)

	port := p.num / 8
	if err := p.c.SetDigitalPortReporting(port, true); err != nil {
		return err
	}
	// The board answers with the current port value.
	if err := p.c.wait(p.c.portSeen[port%Channels]); err != nil {
		return fmt.Errorf("%w: port %d", err, port)
	}
	// Changes seen while configuring are not edges.
	if p.edges != nil {
		select {
		case <-p.edges:
		default:
		}
	}
	return nil
}

// Read returns the last level reported for the line.
func (p *Pin) Read() gpio.Level {
	return p.c.level(p.num)
}

// WaitForEdge waits for the next edge configured with In, or until timeout
// elapses. A negative timeout waits forever.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	p.mu.Lock()
	ch, edge := p.edges, p.edge
	p.mu.Unlock()
	if ch == nil {
		return false
	}
	var after <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		after = t.C
	}
	for {
		select {
		case l := <-ch:
			if edge == gpio.BothEdges || (edge == gpio.RisingEdge) == bool(l) {
				return true
			}
		case <-after:
			return false
		case <-p.c.done:
			return false
		}
	}
}

// Pull returns the pull set by In.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull returns gpio.PullNoChange; the board does not report it.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out drives the line, switching it to an output first when needed.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.setFunc(PinFuncDigitalOutput); err != nil {
		return err
	}
	return p.c.SetDigitalPinValue(p.num, l)
}

// PWM sets the duty cycle of the line. The frequency is fixed by the board
// and f is ignored.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	if duty < 0 || duty > gpio.DutyMax {
		return fmt.Errorf("%w: duty %s", ErrValueOutOfRange, duty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.setFunc(PinFuncPWM); err != nil {
		return err
	}
	return p.c.AnalogWrite(p.num, uint16(int64(duty)*pwmMax/int64(gpio.DutyMax)))
}

// Func returns the function last set on the line by this client.
func (p *Pin) Func() pin.Func {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fn == "" {
		return pin.FuncNone
	}
	return p.fn
}

// Halt stops edge notifications.
func (p *Pin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edges = nil
	p.c.setEdgeListener(p.num, nil)
	return nil
}

// Name returns the Arduino name of the line, "D<n>".
func (p *Pin) Name() string {
	return fmt.Sprintf("D%d", p.num)
}

func (p *Pin) String() string {
	return p.Name()
}

// Number returns the line number.
func (p *Pin) Number() int {
	return int(p.num)
}

// Deprecated: Use Func.
func (p *Pin) Function() string {
	return string(p.Func())
}

// setFunc changes the line mode when it differs. p.mu must be held.
func (p *Pin) setFunc(fn pin.Func) error {
	if p.fn == fn {
		return nil
	}
	if err := p.c.SetPinMode(p.num, fn); err != nil {
		return err
	}
	p.fn = fn
	return nil
}

var _ gpio.PinIO = &Pin{}
