// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tn05

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/TangibleNetworks/Lib-05/dacwire"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// Inputs is the number of input jacks.
	Inputs = 6
	// Dips is the number of DIP switches.
	Dips = 2

	devName = "TN-05"
)

// DefaultPWMFrequency matches the PWM frequency of the module's LED pins
// when driven by the stock firmware.
const DefaultPWMFrequency = 490 * physic.Hertz

var errMissingPin = errors.New("tn05: missing pin")

// PinMap assigns a line to every signal of the module.
type PinMap struct {
	// Analog is the analog view of each input jack.
	Analog [Inputs]analog.PinADC
	// Digital is the digital view of each input jack.
	Digital [Inputs]gpio.PinIn
	// Pot is the potentiometer wiper.
	Pot analog.PinADC
	// MasterAnalog is the analog line of the master controller bus.
	MasterAnalog analog.PinADC
	// MasterSwitch is the active-low switch line of the master bus.
	MasterSwitch gpio.PinIn
	// Dip are the active-low DIP switch lines.
	Dip [Dips]gpio.PinIn
	// Switch is the active-low push switch line.
	Switch gpio.PinIn
	// LED are the red, green and blue PWM lines of the indicator.
	LED [3]gpio.PinOut
	// DACClock and DACData are the two lines of the output DAC bus.
	DACClock gpio.PinOut
	DACData  gpio.PinOut
}

func (p *PinMap) validate() error {
	for i := range Inputs {
		if p.Analog[i] == nil {
			return fmt.Errorf("%w: analog input %d", errMissingPin, i)
		}
		if p.Digital[i] == nil {
			return fmt.Errorf("%w: digital input %d", errMissingPin, i)
		}
	}
	for i := range Dips {
		if p.Dip[i] == nil {
			return fmt.Errorf("%w: dip %d", errMissingPin, i)
		}
	}
	for i, l := range p.LED {
		if l == nil {
			return fmt.Errorf("%w: led %d", errMissingPin, i)
		}
	}
	switch {
	case p.Pot == nil:
		return fmt.Errorf("%w: pot", errMissingPin)
	case p.MasterAnalog == nil:
		return fmt.Errorf("%w: master analog", errMissingPin)
	case p.MasterSwitch == nil:
		return fmt.Errorf("%w: master switch", errMissingPin)
	case p.Switch == nil:
		return fmt.Errorf("%w: switch", errMissingPin)
	case p.DACClock == nil || p.DACData == nil:
		return fmt.Errorf("%w: dac", errMissingPin)
	}
	return nil
}

// Opts holds the configuration of a module.
type Opts struct {
	// Range is the physical unit domain of inputs and output. The zero
	// value means DefaultRange.
	Range Range
	// PWMFrequency drives the indicator LED. Zero means
	// DefaultPWMFrequency.
	PWMFrequency physic.Frequency
	// DAC configures the output bus timing. Nil means defaults.
	DAC *dacwire.Opts
}

// Dev is a TN-05 module.
//
// All methods are safe for concurrent use. Every call holds the device lock
// for its whole duration, so an output frame is never interleaved with
// another operation on the same module.
type Dev struct {
	mu    sync.Mutex
	pins  PinMap
	rng   Range
	freq  physic.Frequency
	dac   *dacwire.Bus
	state State
}

// New returns a module wired to pins. It configures the input lines, idles
// the DAC bus, writes Min to the output, turns the LED off and samples
// every input once so that State is populated.
//
// A Range with Min >= Max is rejected.
func New(pins *PinMap, opts *Opts) (*Dev, error) {
	if pins == nil {
		return nil, errMissingPin
	}
	if err := pins.validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Opts{}
	}
	d := &Dev{pins: *pins, rng: opts.Range, freq: opts.PWMFrequency}
	if d.rng == (Range{}) {
		d.rng = DefaultRange
	}
	if err := d.rng.validate(); err != nil {
		return nil, err
	}
	if d.freq == 0 {
		d.freq = DefaultPWMFrequency
	}

	for i := range Inputs {
		if err := d.pins.Digital[i].In(gpio.Float, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("tn05: input %d: %w", i, err)
		}
	}
	// The switch lines rely on the pull-ups.
	for _, p := range []gpio.PinIn{d.pins.Switch, d.pins.MasterSwitch, d.pins.Dip[0], d.pins.Dip[1]} {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("tn05: %s: %w", p, err)
		}
	}

	var err error
	if d.dac, err = dacwire.New(d.pins.DACClock, d.pins.DACData, opts.DAC); err != nil {
		return nil, err
	}
	if err = d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init runs every operation once to populate the state.
func (d *Dev) init() error {
	if err := d.WriteOutput(d.rng.Min); err != nil {
		return err
	}
	for i := range Inputs {
		if _, err := d.ReadAnalog(i); err != nil {
			return err
		}
	}
	if err := d.Colour(0, 0, 0); err != nil {
		return err
	}
	for i := range Dips {
		if _, err := d.Dip(i); err != nil {
			return err
		}
	}
	if _, err := d.ReadMaster(); err != nil {
		return err
	}
	if _, err := d.MasterSwitch(); err != nil {
		return err
	}
	if _, err := d.Pot(); err != nil {
		return err
	}
	_, err := d.Switch()
	return err
}

// Range returns the physical unit domain of the module.
func (d *Dev) Range() Range {
	return d.rng
}

// WriteOutput sets the output jack to v. v is clamped into the range.
func (d *Dev) WriteOutput(v float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeOutput(v)
}

func (d *Dev) writeOutput(v float64) error {
	v = d.rng.Clamp(v)
	if err := d.dac.Transmit(d.rng.Code(v)); err != nil {
		return fmt.Errorf("tn05: %w", err)
	}
	d.state.Out = v
	return nil
}

// WriteDigitalOutput sets the output jack to Max when b is true and to Min
// otherwise.
func (d *Dev) WriteDigitalOutput(b bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b {
		return d.writeOutput(d.rng.Max)
	}
	return d.writeOutput(d.rng.Min)
}

// IsConnected reports whether something is plugged into input ch. ch is
// clamped into [0, Inputs-1].
func (d *Dev) IsConnected(ch int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok, err := d.sampleJack(clampIndex(ch, Inputs))
	return ok, err
}

// ReadAnalog returns the calibrated value of input ch, or Min when nothing
// is plugged in. ch is clamped into [0, Inputs-1].
func (d *Dev) ReadAnalog(ch int) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch = clampIndex(ch, Inputs)
	raw, ok, err := d.sampleJack(ch)
	if err != nil {
		return d.rng.Min, err
	}
	v := d.rng.Min
	if ok {
		v = d.rng.scale(JackCalibration.Fraction(raw))
	}
	d.state.Ins[ch] = v
	return v, nil
}

// ReadDigital returns the logic level of input ch as 0 or 1, or 0 when
// nothing is plugged in. ch is clamped into [0, Inputs-1].
func (d *Dev) ReadDigital(ch int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch = clampIndex(ch, Inputs)
	_, ok, err := d.sampleJack(ch)
	if err != nil {
		return 0, err
	}
	v := 0
	if ok && d.pins.Digital[ch].Read() == gpio.High {
		v = 1
	}
	d.state.Ins[ch] = float64(v)
	return v, nil
}

// Pot returns the potentiometer position in [0, 1].
func (d *Dev) Pot() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, err := d.sample(d.pins.Pot)
	if err != nil {
		return 0, err
	}
	d.state.Pot = float64(raw) / RawMax
	return d.state.Pot, nil
}

// IsMasterConnected reports whether a master controller is plugged in.
func (d *Dev) IsMasterConnected() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, err := d.sample(d.pins.MasterAnalog)
	if err != nil {
		return false, err
	}
	return MasterCalibration.Connected(raw), nil
}

// ReadMaster returns the master controller value in [0, 1], or 0 when no
// master is plugged in.
func (d *Dev) ReadMaster() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, err := d.sample(d.pins.MasterAnalog)
	if err != nil {
		return 0, err
	}
	v := 0.0
	if MasterCalibration.Connected(raw) {
		v = MasterCalibration.Fraction(raw)
	}
	d.state.MasterAnalog = v
	return v, nil
}

// Dip returns true when DIP switch i is on. i is clamped into [0, Dips-1].
func (d *Dev) Dip(i int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i = clampIndex(i, Dips)
	d.state.Dips[i] = d.pins.Dip[i].Read() == gpio.Low
	return d.state.Dips[i], nil
}

// Switch returns true while the push switch is pressed.
func (d *Dev) Switch() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Switch = d.pins.Switch.Read() == gpio.Low
	return d.state.Switch, nil
}

// MasterSwitch returns true while the master controller switch is pressed.
func (d *Dev) MasterSwitch() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.MasterSwitch = d.pins.MasterSwitch.Read() == gpio.Low
	return d.state.MasterSwitch, nil
}

// Colour sets the indicator LED. Each component is clamped into [0, 255].
func (d *Dev) Colour(r, g, b int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := [3]uint8{clampByte(r), clampByte(g), clampByte(b)}
	for i, v := range c {
		duty := gpio.Duty(int64(gpio.DutyMax) * int64(v) / math.MaxUint8)
		if err := d.pins.LED[i].PWM(duty, d.freq); err != nil {
			return fmt.Errorf("tn05: led: %w", err)
		}
	}
	d.state.Colour = c
	return nil
}

// ColourFloat sets the indicator LED from components in [0, 1]. Values are
// truncated to 8 bits and clamped.
func (d *Dev) ColourFloat(r, g, b float64) error {
	return d.Colour(unitToByte(r), unitToByte(g), unitToByte(b))
}

// Halt turns the LED off, sets the output to Min and idles the DAC bus.
func (d *Dev) Halt() error {
	err := d.Colour(0, 0, 0)
	if err2 := d.WriteOutput(d.rng.Min); err == nil {
		err = err2
	}
	if err2 := d.dac.Halt(); err == nil {
		err = err2
	}
	return err
}

func (d *Dev) String() string {
	return devName
}

// sampleJack returns the raw sample of input ch and whether it is connected.
func (d *Dev) sampleJack(ch int) (int, bool, error) {
	raw, err := d.sample(d.pins.Analog[ch])
	if err != nil {
		return raw, false, err
	}
	return raw, JackCalibration.Connected(raw), nil
}

func (d *Dev) sample(p analog.PinADC) (int, error) {
	s, err := p.Read()
	if err != nil {
		return 0, fmt.Errorf("tn05: %s: %w", p, err)
	}
	return clampRaw(s.Raw), nil
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

func unitToByte(f float64) int {
	f = math.Min(math.Max(f, -1), 2)
	if math.IsNaN(f) {
		return 0
	}
	return int(f * math.MaxUint8)
}

var _ conn.Resource = &Dev{}
