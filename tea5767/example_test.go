// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tea5767_test

import (
	"fmt"
	"log"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/tea5767"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	radio, err := tea5767.New(b)
	if err != nil {
		log.Fatalf("failed to initialize TEA5767: %v", err)
	}
	defer radio.Halt()

	if err := radio.On(); err != nil {
		log.Fatal(err)
	}
	if err := radio.SetFrequency(98700 * physic.KiloHertz); err != nil {
		log.Fatal(err)
	}

	// Hunt for the next station up the band.
	station, err := radio.SeekUp()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("tuned to %s\n", station)
}
