// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package buzzer drives the alarm clock's piezo beeper from a PWM
// capable output pin.
//
// The tone runs on the pin's own hardware timer, so beeping costs the
// processor nothing and shares no state with the display engine.
package buzzer

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// DefaultFrequency is close to the resonance peak of the common small
// piezo disc, and annoying enough to wake up to.
const DefaultFrequency = 4 * physic.KiloHertz

// Opts represents the options available for the beeper.
type Opts struct {
	// Frequency of the tone. 0 means DefaultFrequency.
	Frequency physic.Frequency

	_ struct{}
}

// Dev represents the beeper.
type Dev struct {
	pin  gpio.PinOut
	freq physic.Frequency
	on   bool
}

// New returns a beeper on pin, silent.
func New(pin gpio.PinOut, opts *Opts) (*Dev, error) {
	if pin == nil {
		return nil, fmt.Errorf("buzzer: pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	freq := opts.Frequency
	if freq == 0 {
		freq = DefaultFrequency
	}
	if freq < 0 {
		return nil, fmt.Errorf("buzzer: invalid frequency %s", freq)
	}
	d := &Dev{pin: pin, freq: freq}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("buzzer: %w", err)
	}
	return d, nil
}

// On starts the tone.
func (d *Dev) On() error {
	if err := d.pin.PWM(gpio.DutyHalf, d.freq); err != nil {
		return fmt.Errorf("buzzer: %w", err)
	}
	d.on = true
	return nil
}

// Off silences the beeper.
func (d *Dev) Off() error {
	if err := d.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer: %w", err)
	}
	d.on = false
	return nil
}

// IsOn reports whether the tone is sounding.
func (d *Dev) IsOn() bool {
	return d.on
}

// SetFrequency changes the tone, taking effect immediately if it is
// sounding.
func (d *Dev) SetFrequency(freq physic.Frequency) error {
	if freq <= 0 {
		return fmt.Errorf("buzzer: invalid frequency %s", freq)
	}
	d.freq = freq
	if d.on {
		return d.On()
	}
	return nil
}

// Frequency returns the configured tone.
func (d *Dev) Frequency() physic.Frequency {
	return d.freq
}

// Halt silences the beeper. Implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Off()
}

func (d *Dev) String() string {
	return fmt.Sprintf("Buzzer{%s}", d.pin)
}
