// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockdisplay

import (
	"fmt"
	"time"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

const (
	segmentMask   gpio.GPIOValue = 0x7f
	indicatorMask gpio.GPIOValue = 0x3f
)

// GPIOPort drives the display through plain output pins: a gpio.Group
// of 7 for the shared segment lines, one discrete gpio.PinOut per scan
// line, and a gpio.Group of 6 for the indicator bank. The groups may
// come from the host's own pins or from an I/O expander or shift
// register that exposes gpio.Group.
type GPIOPort struct {
	segments   gpio.Group
	scan       [numPositions]gpio.PinOut
	indicators gpio.Group
}

// NewGPIO returns a Port over the given pins. The first 7 pins of
// segments must be wired to segments a-g in order, and the first 6 pins
// of indicators to the lamps in Indicator order. Scan lines are active
// high; wire a driver transistor per digit if the common pins sink more
// current than a GPIO can.
func NewGPIO(segments gpio.Group, scan [numPositions]gpio.PinOut, indicators gpio.Group) (*GPIOPort, error) {
	if len(segments.Pins()) < 7 {
		return nil, fmt.Errorf("clockdisplay: segment group needs 7 pins, have %d", len(segments.Pins()))
	}
	if len(indicators.Pins()) < numIndicators {
		return nil, fmt.Errorf("clockdisplay: indicator group needs %d pins, have %d", numIndicators, len(indicators.Pins()))
	}
	for ix, p := range scan {
		if p == nil {
			return nil, fmt.Errorf("clockdisplay: scan pin for %s is required", Position(ix))
		}
	}
	return &GPIOPort{segments: segments, scan: scan, indicators: indicators}, nil
}

// DriveSegments implements Port.
func (g *GPIOPort) DriveSegments(p segment7.Pattern) error {
	return g.segments.Out(gpio.GPIOValue(p), segmentMask)
}

// EnableDigit implements Port.
func (g *GPIOPort) EnableDigit(pos Position) error {
	return g.scan[pos].Out(gpio.High)
}

// DisableDigit implements Port.
func (g *GPIOPort) DisableDigit(pos Position) error {
	return g.scan[pos].Out(gpio.Low)
}

// DisableAllDigits implements Port.
func (g *GPIOPort) DisableAllDigits() error {
	for ix := range g.scan {
		if err := g.scan[ix].Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// SetIndicators implements Port.
func (g *GPIOPort) SetIndicators(mask IndicatorMask) error {
	return g.indicators.Out(gpio.GPIOValue(mask), indicatorMask)
}

// Halt turns every line off.
func (g *GPIOPort) Halt() error {
	if err := g.DisableAllDigits(); err != nil {
		return err
	}
	if err := g.segments.Out(0, segmentMask); err != nil {
		return err
	}
	return g.indicators.Out(0, indicatorMask)
}

func (g *GPIOPort) String() string {
	return fmt.Sprintf("ClockDisplayGPIO{%s}", g.segments)
}

var _ Port = &GPIOPort{}

// pinGroup bundles discrete output pins into a gpio.Group. Hosts hand
// out individual pins; expanders and shift registers already expose
// groups of their own.
type pinGroup struct {
	name string
	pins []gpio.PinOut
}

// NewPinGroup returns a gpio.Group writing through the given pins, bit
// 0 of a value going to the first pin.
func NewPinGroup(name string, pins ...gpio.PinOut) (gpio.Group, error) {
	for ix, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("clockdisplay: pin %d of group %q is nil", ix, name)
		}
	}
	return &pinGroup{name: name, pins: pins}, nil
}

func (g *pinGroup) Pins() []pin.Pin {
	result := make([]pin.Pin, len(g.pins))
	for ix := range g.pins {
		result[ix] = g.pins[ix]
	}
	return result
}

func (g *pinGroup) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(g.pins) {
		return nil
	}
	return g.pins[offset]
}

func (g *pinGroup) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (g *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range g.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

func (g *pinGroup) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(g.pins)) - 1
	}
	for ix, p := range g.pins {
		bit := gpio.GPIOValue(1 << ix)
		if mask&bit == 0 {
			continue
		}
		if err := p.Out(gpio.Level(value&bit != 0)); err != nil {
			return err
		}
	}
	return nil
}

func (g *pinGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	return 0, fmt.Errorf("clockdisplay: group %q is write only", g.name)
}

func (g *pinGroup) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, fmt.Errorf("clockdisplay: group %q is write only", g.name)
}

func (g *pinGroup) Halt() error {
	return g.Out(0, 0)
}

func (g *pinGroup) String() string {
	return g.name
}

var _ gpio.Group = &pinGroup{}
