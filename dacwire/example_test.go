// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dacwire_test

import (
	"fmt"
	"log"

	"github.com/TangibleNetworks/Lib-05/dacwire"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	clk := gpioreg.ByName("GPIO17")
	dat := gpioreg.ByName("GPIO27")
	if clk == nil || dat == nil {
		log.Fatal("DAC lines not found")
	}
	bus, err := dacwire.New(clk, dat, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Halt()

	// Mid scale.
	if err := bus.Transmit(2048); err != nil {
		log.Fatal(err)
	}
}

func ExampleFrame() {
	for _, b := range dacwire.Frame(205) {
		if b {
			fmt.Print("1")
		} else {
			fmt.Print("0")
		}
	}
	fmt.Println()
	// Output: 110000001000000001110011011
}
