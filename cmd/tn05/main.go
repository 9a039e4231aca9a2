// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tn05 drives a TN-05 module running StandardFirmata from a host.
//
// Without a subcommand it prints the module state periodically:
//
//	tn05 --port=/dev/ttyUSB0
//	tn05 --port=/dev/ttyUSB0 write --value=0.5
//	tn05 --port=/dev/ttyUSB0 --preview colour --red=255
//	tn05 frame --code=2048
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/TangibleNetworks/Lib-05/dacwire"
	"github.com/TangibleNetworks/Lib-05/firmata"
	"github.com/TangibleNetworks/Lib-05/ledterm"
	"github.com/TangibleNetworks/Lib-05/tn05"
	"github.com/metakeule/config"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	cfg = config.MustNew("tn05", "0.1.0", "drive a TN-05 module running StandardFirmata")

	argPort     = cfg.NewString("port", "serial device of the module", config.Default("/dev/ttyUSB0"))
	argBaud     = cfg.NewInt32("baud", "serial baud rate", config.Default(int32(firmata.DefaultBaud)))
	argMin      = cfg.NewFloat32("min", "physical value of the bottom of the scale", config.Default(float32(0)))
	argMax      = cfg.NewFloat32("max", "physical value of the top of the scale", config.Default(float32(1)))
	argDACClock = cfg.NewString("dacclock", "host GPIO driving the DAC clock, instead of the board line")
	argDACData  = cfg.NewString("dacdata", "host GPIO driving the DAC data, instead of the board line")
	argPreview  = cfg.NewBool("preview", "mirror the indicator LED in the terminal", config.Default(false))
	argVerbose  = cfg.NewBool("verbose", "enable verbose logs", config.Default(false))
	argInterval = cfg.NewInt32("interval", "state polling period in ms", config.Default(int32(200)))

	stateCmd = cfg.MustCommand("state", "print the module state periodically")

	writeCmd = cfg.MustCommand("write", "set the output jack")
	argValue = writeCmd.NewFloat32("value", "output value, clamped into [min, max]", config.Required)

	colourCmd = cfg.MustCommand("colour", "set the indicator LED")
	argRed    = colourCmd.NewInt32("red", "red component, 0-255", config.Default(int32(0)))
	argGreen  = colourCmd.NewInt32("green", "green component, 0-255", config.Default(int32(0)))
	argBlue   = colourCmd.NewInt32("blue", "blue component, 0-255", config.Default(int32(0)))

	frameCmd = cfg.MustCommand("frame", "print the DAC frame of an output code")
	argCode  = frameCmd.NewInt32("code", "output code, clamped into the DAC range", config.Required)
)

// formatFrame renders the frame of code with its fields separated.
func formatFrame(code uint16) string {
	var b strings.Builder
	for i, l := range dacwire.Frame(code) {
		// Field boundaries: header, framing, reserved, high nibble, framing,
		// low byte, trailer.
		switch i {
		case 8, 9, 13, 17, 18, 26:
			b.WriteByte(' ')
		}
		if l {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func clampCode(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// hostLine returns the host GPIO name, initializing the host drivers.
func hostLine(name string) (gpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find GPIO %q", name)
	}
	return p, nil
}

func open() (*tn05.Dev, func(), error) {
	port, err := firmata.OpenSerial(argPort.Get(), int(argBaud.Get()))
	if err != nil {
		return nil, nil, err
	}
	c := firmata.NewClient(port)
	if err := c.Start(); err != nil {
		c.Close()
		return nil, nil, err
	}
	log.Printf("firmware %s", c.Firmware())

	pins, err := tn05.FirmataPins(c, nil)
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	clk, dat := argDACClock.Get(), argDACData.Get()
	if (clk == "") != (dat == "") {
		c.Close()
		return nil, nil, errors.New("dacclock and dacdata must be set together")
	}
	if clk != "" {
		if pins.DACClock, err = hostLine(clk); err != nil {
			c.Close()
			return nil, nil, err
		}
		if pins.DACData, err = hostLine(dat); err != nil {
			c.Close()
			return nil, nil, err
		}
		log.Printf("DAC on %s, %s", pins.DACClock, pins.DACData)
	}
	var preview *ledterm.Dev
	if argPreview.Get() {
		preview = ledterm.New(nil)
		pins.LED = preview.Mirror(pins.LED)
	}

	rng := tn05.Range{Min: float64(argMin.Get()), Max: float64(argMax.Get())}
	d, err := tn05.New(pins, &tn05.Opts{Range: rng})
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return d, func() {
		if err := d.Halt(); err != nil {
			log.Print(err)
		}
		if preview != nil {
			_ = preview.Halt()
		}
		c.Close()
	}, nil
}

func poll(d *tn05.Dev, interval time.Duration) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		s, err := d.Refresh()
		if err != nil {
			return err
		}
		fmt.Println(s)
		select {
		case <-sig:
			return nil
		case <-t.C:
		}
	}
}

func mainImpl() error {
	if err := cfg.Run(); err != nil {
		return err
	}
	if !argVerbose.Get() {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if cfg.ActiveCommand() == frameCmd {
		code := dacwire.ClampCode(clampCode(argCode.Get()))
		fmt.Printf("%d: %s\n", code, formatFrame(code))
		return nil
	}

	d, closer, err := open()
	if err != nil {
		return err
	}
	defer closer()

	switch cfg.ActiveCommand() {
	case writeCmd:
		v := float64(argValue.Get())
		log.Printf("output %g, code %d", v, d.Range().Code(v))
		return d.WriteOutput(v)
	case colourCmd:
		return d.Colour(int(argRed.Get()), int(argGreen.Get()), int(argBlue.Get()))
	case stateCmd, nil:
		interval := time.Duration(argInterval.Get()) * time.Millisecond
		if interval <= 0 {
			return fmt.Errorf("invalid interval %s", interval)
		}
		return poll(d, interval)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tn05: %s.\n", err)
		os.Exit(1)
	}
}
