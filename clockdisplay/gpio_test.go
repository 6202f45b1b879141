// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockdisplay

import (
	"fmt"
	"testing"
	"time"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/pin"
)

// fakeGroup is a gpio.Group retaining the last written value.
type fakeGroup struct {
	name  string
	pins  []*gpiotest.Pin
	value gpio.GPIOValue
}

func newFakeGroup(name string, count int) *fakeGroup {
	g := &fakeGroup{name: name}
	for ix := range count {
		g.pins = append(g.pins, &gpiotest.Pin{N: fmt.Sprintf("%s%d", name, ix), Num: ix})
	}
	return g
}

func (g *fakeGroup) Pins() []pin.Pin {
	result := make([]pin.Pin, len(g.pins))
	for ix, p := range g.pins {
		result[ix] = p
	}
	return result
}

func (g *fakeGroup) ByOffset(offset int) pin.Pin {
	return g.pins[offset]
}

func (g *fakeGroup) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.N == name {
			return p
		}
	}
	return nil
}

func (g *fakeGroup) ByNumber(number int) pin.Pin {
	for _, p := range g.pins {
		if p.Num == number {
			return p
		}
	}
	return nil
}

func (g *fakeGroup) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(g.pins)) - 1
	}
	g.value = (g.value &^ mask) | (value & mask)
	return nil
}

func (g *fakeGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(g.pins)) - 1
	}
	return g.value & mask, nil
}

func (g *fakeGroup) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, fmt.Errorf("%s: no edges", g.name)
}

func (g *fakeGroup) Halt() error {
	return nil
}

func (g *fakeGroup) String() string {
	return g.name
}

var _ gpio.Group = &fakeGroup{}

func newGPIOFixture(t *testing.T) (*GPIOPort, *fakeGroup, [numPositions]*gpiotest.Pin, *fakeGroup) {
	t.Helper()
	segments := newFakeGroup("SEG", 7)
	indicators := newFakeGroup("IND", 6)
	var scanPins [numPositions]*gpiotest.Pin
	var scan [numPositions]gpio.PinOut
	for ix := range scanPins {
		scanPins[ix] = &gpiotest.Pin{N: Position(ix).String(), Num: ix}
		scan[ix] = scanPins[ix]
	}
	port, err := NewGPIO(segments, scan, indicators)
	if err != nil {
		t.Fatal(err)
	}
	return port, segments, scanPins, indicators
}

func TestGPIOPort(t *testing.T) {
	port, segments, scanPins, indicators := newGPIOFixture(t)

	p, err := segment7.Encode(5)
	if err != nil {
		t.Fatal(err)
	}
	if err := port.DriveSegments(p); err != nil {
		t.Fatal(err)
	}
	if segments.value != gpio.GPIOValue(p) {
		t.Errorf("segment lines expected %#02x found %#02x", byte(p), segments.value)
	}

	if err := port.EnableDigit(MinuteTens); err != nil {
		t.Fatal(err)
	}
	if scanPins[MinuteTens].L != gpio.High {
		t.Error("MinuteTens scan line expected high")
	}
	if err := port.DisableDigit(MinuteTens); err != nil {
		t.Fatal(err)
	}
	if scanPins[MinuteTens].L != gpio.Low {
		t.Error("MinuteTens scan line expected low")
	}

	for ix := range scanPins {
		if err := port.EnableDigit(Position(ix)); err != nil {
			t.Fatal(err)
		}
	}
	if err := port.DisableAllDigits(); err != nil {
		t.Fatal(err)
	}
	for ix := range scanPins {
		if scanPins[ix].L != gpio.Low {
			t.Errorf("scan line %s expected low", Position(ix))
		}
	}

	mask := Seconds.bit() | Beep2.bit()
	if err := port.SetIndicators(mask); err != nil {
		t.Fatal(err)
	}
	if indicators.value != gpio.GPIOValue(mask) {
		t.Errorf("indicator lines expected %#02x found %#02x", byte(mask), indicators.value)
	}

	if err := port.Halt(); err != nil {
		t.Fatal(err)
	}
	if segments.value != 0 || indicators.value != 0 {
		t.Error("Halt left lines driven")
	}
}

func TestNewGPIOValidates(t *testing.T) {
	var scan [numPositions]gpio.PinOut
	for ix := range scan {
		scan[ix] = &gpiotest.Pin{N: Position(ix).String(), Num: ix}
	}
	if _, err := NewGPIO(newFakeGroup("SEG", 6), scan, newFakeGroup("IND", 6)); err == nil {
		t.Error("short segment group expected an error")
	}
	if _, err := NewGPIO(newFakeGroup("SEG", 7), scan, newFakeGroup("IND", 5)); err == nil {
		t.Error("short indicator group expected an error")
	}
	scan[2] = nil
	if _, err := NewGPIO(newFakeGroup("SEG", 7), scan, newFakeGroup("IND", 6)); err == nil {
		t.Error("missing scan pin expected an error")
	}
}
