// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ds1804 controls the Maxim DS1804 digital potentiometer, used
// as the volume control of the clock radio.
//
// The part has no readback; the wiper position is tracked in software
// and made known by walking the wiper to one end at startup.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/DS1804.pdf
package ds1804

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Taps is the number of wiper positions.
const Taps = 100

// Dev represents a DS1804 connected through three GPIO pins.
type Dev struct {
	cs  gpio.PinOut // active low
	inc gpio.PinOut // moves the wiper on a falling edge
	ud  gpio.PinOut // direction, high is up
	pos int
}

// New returns a potentiometer driven through cs, inc and ud. The wiper
// is walked to position 0 so that later moves land where expected.
func New(cs, inc, ud gpio.PinOut) (*Dev, error) {
	if cs == nil || inc == nil || ud == nil {
		return nil, errors.New("ds1804: all of cs, inc and ud are required")
	}
	d := &Dev{cs: cs, inc: inc, ud: ud, pos: Taps - 1}
	if err := d.inc.Out(gpio.High); err != nil {
		return nil, wrap(err)
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return nil, wrap(err)
	}
	// The power up position is unknown; Taps-1 steps down pins it at 0
	// from anywhere.
	if err := d.Set(0); err != nil {
		return nil, err
	}
	return d, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ds1804: %w", err)
}

// step pulses INC once in the direction already set. The wiper moves
// on the falling edge.
func (d *Dev) step() error {
	if err := d.inc.Out(gpio.High); err != nil {
		return wrap(err)
	}
	return wrap(d.inc.Out(gpio.Low))
}

// Set walks the wiper to position, in the range [0, Taps).
func (d *Dev) Set(position int) error {
	if position < 0 || position >= Taps {
		return fmt.Errorf("ds1804: position %d out of range [0, %d)", position, Taps)
	}
	up := position > d.pos
	level := gpio.Low
	if up {
		level = gpio.High
	}
	if err := d.ud.Out(level); err != nil {
		return wrap(err)
	}
	for d.pos != position {
		if err := d.step(); err != nil {
			return err
		}
		if up {
			d.pos++
		} else {
			d.pos--
		}
	}
	return nil
}

// StepUp moves the wiper one tap louder. At the top it stays put.
func (d *Dev) StepUp() error {
	if d.pos == Taps-1 {
		return nil
	}
	return d.Set(d.pos + 1)
}

// StepDown moves the wiper one tap quieter. At the bottom it stays
// put.
func (d *Dev) StepDown() error {
	if d.pos == 0 {
		return nil
	}
	return d.Set(d.pos - 1)
}

// Position returns the tracked wiper position.
func (d *Dev) Position() int {
	return d.pos
}

// Halt deselects the chip, freezing the wiper where it is. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	return wrap(d.cs.Out(gpio.High))
}

func (d *Dev) String() string {
	return fmt.Sprintf("DS1804{%s, %s, %s}", d.cs, d.inc, d.ud)
}
