// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tn05_test

import (
	"fmt"
	"log"
	"os"

	"github.com/TangibleNetworks/Lib-05/firmata"
	"github.com/TangibleNetworks/Lib-05/tn05"
)

func Example() {
	port, err := firmata.OpenSerial("/dev/ttyUSB0", firmata.DefaultBaud)
	if err != nil {
		log.Fatal(err)
	}
	c := firmata.NewClient(port)
	if err := c.Start(); err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	pins, err := tn05.FirmataPins(c, nil)
	if err != nil {
		log.Fatal(err)
	}
	d, err := tn05.New(pins, &tn05.Opts{Range: tn05.Range{Min: -5, Max: 5}})
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	// Copy input 0 to the output, inverted.
	v, err := d.ReadAnalog(0)
	if err != nil {
		log.Fatal(err)
	}
	if err := d.WriteOutput(-v); err != nil {
		log.Fatal(err)
	}
	if err := d.PrintState(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func ExampleRange_Code() {
	r := tn05.Range{Min: -5, Max: 5}
	fmt.Println(r.Code(-5), r.Code(0), r.Code(5), r.Code(12))
	// Output: 205 2048 3891 3891
}
