// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package keypad reads the push buttons of the clock with debouncing.
//
// The buttons sit on a gpio.Group with pull ups, so a pressed key
// reads low. Every query is a fresh read of the pins; the package
// keeps no edge state.
package keypad

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Key identifies one button by its offset in the group.
type Key int

// The buttons of the clock.
const (
	SetTime Key = iota
	SetAlarm
	Hours
	Minutes
	Snooze
	Radio

	numKeys
)

var keyNames = [numKeys]string{"SetTime", "SetAlarm", "Hours", "Minutes", "Snooze", "Radio"}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Mask selects a set of keys.
type Mask gpio.GPIOValue

// Bit returns the mask of a single key.
func (k Key) Bit() Mask {
	return 1 << uint(k)
}

const allKeys = Mask(1<<numKeys) - 1

// Timing defaults. A mechanical button settles well within the
// debounce delay; the hold delay is what turns a press into a
// "held" press for fast setting.
const (
	DefaultDebounce = 20 * time.Millisecond
	DefaultHold     = 2 * time.Second

	holdPollInterval = 50 * time.Millisecond
)

// Opts holds the timing of a Dev.
type Opts struct {
	// Debounce is how long between the two samples of IsPressed.
	Debounce time.Duration
	// Hold is how long a key must stay down for IsHeldLong.
	Hold time.Duration
}

// DefaultOpts is the recommended timing.
var DefaultOpts = Opts{Debounce: DefaultDebounce, Hold: DefaultHold}

// Dev reads a group of buttons.
type Dev struct {
	g     gpio.Group
	opts  Opts
	sleep func(time.Duration) // swapped in tests
}

// New returns a keypad reading g. Pass nil for the default timing.
func New(g gpio.Group, opts *Opts) (*Dev, error) {
	if g == nil {
		return nil, errors.New("keypad: a pin group is required")
	}
	if len(g.Pins()) < int(numKeys) {
		return nil, fmt.Errorf("keypad: need %d pins, group has %d", numKeys, len(g.Pins()))
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Hold <= 0 {
		o.Hold = DefaultHold
	}
	return &Dev{g: g, opts: o, sleep: time.Sleep}, nil
}

// read returns the keys currently down. Pressed keys read low.
func (d *Dev) read() (Mask, error) {
	v, err := d.g.Read(gpio.GPIOValue(allKeys))
	if err != nil {
		return 0, fmt.Errorf("keypad: %w", err)
	}
	return ^Mask(v) & allKeys, nil
}

// IsPressed reports whether every key in mask is down, sampled twice
// across the debounce delay so contact bounce does not register.
func (d *Dev) IsPressed(mask Mask) (bool, error) {
	down, err := d.read()
	if err != nil {
		return false, err
	}
	if down&mask != mask {
		return false, nil
	}
	d.sleep(d.opts.Debounce)
	down, err = d.read()
	if err != nil {
		return false, err
	}
	return down&mask == mask, nil
}

// IsReleased reports whether no key at all is down.
func (d *Dev) IsReleased() (bool, error) {
	down, err := d.read()
	if err != nil {
		return false, err
	}
	return down == 0, nil
}

// IsHeldLong reports whether every key in mask stays down for the
// hold delay. It returns as soon as a key comes up; it never polls
// past the hold delay.
func (d *Dev) IsHeldLong(mask Mask) (bool, error) {
	for elapsed := time.Duration(0); elapsed < d.opts.Hold; elapsed += holdPollInterval {
		down, err := d.read()
		if err != nil {
			return false, err
		}
		if down&mask != mask {
			return false, nil
		}
		d.sleep(holdPollInterval)
	}
	return true, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Keypad{%s}", d.g)
}
