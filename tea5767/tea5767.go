// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tea5767 controls the NXP TEA5767 FM stereo radio, the tuner
// of the clock radio.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/TEA5767HN.pdf
package tea5767

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the fixed I2C address of the TEA5767.
const DefaultAddress uint16 = 0x60

// Band limits of the European/US FM band the clock is built for.
const (
	MinFrequency = 87500 * physic.KiloHertz
	MaxFrequency = 108 * physic.MegaHertz
)

const (
	// The PLL reference is the 32.768kHz crystal; one PLL step is
	// 32768Hz/4 of RF.
	pllStep = 8192 // Hz
	// Intermediate frequency for high side injection.
	ifFreq = 225000 // Hz

	// seekChannelStep is how far above (or below) the current station a
	// search starts.
	seekChannelStep = 100 * physic.KiloHertz

	// A search across the whole band takes a couple of seconds; give
	// up after that rather than spinning forever on an empty band.
	maxSeekPolls = 20
	pollInterval = 25 * time.Millisecond
)

// Write register bits, see the datasheet.
const (
	_W1_MUTE byte = 0x80
	_W1_SM   byte = 0x40 // search mode

	_W3_SUD  byte = 0x80 // search up
	_W3_SSL  byte = 0x40 // search stop level, mid sensitivity
	_W3_HLSI byte = 0x10 // high side injection

	_W4_STBY byte = 0x40
	_W4_XTAL byte = 0x10

	_R1_RF  byte = 0x80 // ready flag
	_R1_BLF byte = 0x40 // band limit hit
)

// Dev represents a TEA5767 tuner.
type Dev struct {
	d    *i2c.Dev
	freq physic.Frequency
	on   bool
}

// New returns a tuner on bus, in standby at the bottom of the band.
func New(bus i2c.Bus) (*Dev, error) {
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: DefaultAddress}, freq: MinFrequency}
	if err := dev.write(false, false); err != nil {
		return nil, err
	}
	return dev, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tea5767: %w", err)
}

// pll converts an RF frequency to the PLL word for high side
// injection, rounding to the nearest step.
func pll(f physic.Frequency) uint16 {
	hz := int64(f / physic.Hertz)
	return uint16((4*(hz+ifFreq) + pllStep*2) / (pllStep * 4))
}

// frequency is the inverse of pll.
func frequency(n uint16) physic.Frequency {
	return physic.Frequency(int64(n)*pllStep-ifFreq) * physic.Hertz
}

// write programs the 5 write registers for the current station.
func (d *Dev) write(search, up bool) error {
	n := pll(d.freq)
	w := [5]byte{
		byte(n>>8) & 0x3f,
		byte(n),
		_W3_HLSI,
		_W4_XTAL,
		0,
	}
	if search {
		w[0] |= _W1_SM
		w[2] |= _W3_SSL
		if up {
			w[2] |= _W3_SUD
		}
	}
	if !d.on {
		w[3] |= _W4_STBY
	}
	return wrap(d.d.Tx(w[:], nil))
}

// read returns the 5 read registers.
func (d *Dev) read() ([5]byte, error) {
	var r [5]byte
	if err := d.d.Tx(nil, r[:]); err != nil {
		return r, wrap(err)
	}
	return r, nil
}

// On takes the tuner out of standby, back on its last station.
func (d *Dev) On() error {
	d.on = true
	return d.write(false, false)
}

// Off puts the tuner in standby. The station is remembered.
func (d *Dev) Off() error {
	d.on = false
	return d.write(false, false)
}

// IsOn reports whether the tuner is out of standby.
func (d *Dev) IsOn() bool {
	return d.on
}

// SetFrequency tunes to f directly.
func (d *Dev) SetFrequency(f physic.Frequency) error {
	if f < MinFrequency || f > MaxFrequency {
		return fmt.Errorf("tea5767: frequency %s outside the FM band", f)
	}
	d.freq = f
	return d.write(false, false)
}

// Frequency reads back the station the PLL is actually locked to,
// which after a seek differs from the last requested frequency.
func (d *Dev) Frequency() (physic.Frequency, error) {
	r, err := d.read()
	if err != nil {
		return 0, err
	}
	n := uint16(r[0]&0x3f)<<8 | uint16(r[1])
	d.freq = frequency(n)
	return d.freq, nil
}

// SeekUp searches for the next station above the current one and
// returns its frequency. The search wraps once at the top of the band;
// it fails rather than loops if the whole band is empty.
func (d *Dev) SeekUp() (physic.Frequency, error) {
	return d.seek(true)
}

// SeekDown searches downwards, wrapping once at the bottom of the
// band.
func (d *Dev) SeekDown() (physic.Frequency, error) {
	return d.seek(false)
}

func (d *Dev) seek(up bool) (physic.Frequency, error) {
	start := d.freq
	if up {
		start += seekChannelStep
		if start > MaxFrequency {
			start = MinFrequency
		}
	} else {
		start -= seekChannelStep
		if start < MinFrequency {
			start = MaxFrequency
		}
	}
	d.freq = start
	if err := d.write(true, up); err != nil {
		return 0, err
	}

	wrapped := false
	for poll := 0; poll < maxSeekPolls; poll++ {
		r, err := d.read()
		if err != nil {
			return 0, err
		}
		if r[0]&_R1_RF == 0 {
			time.Sleep(pollInterval)
			continue
		}
		if r[0]&_R1_BLF != 0 {
			if wrapped {
				return 0, fmt.Errorf("tea5767: no station found in the whole band")
			}
			wrapped = true
			if up {
				d.freq = MinFrequency
			} else {
				d.freq = MaxFrequency
			}
			if err := d.write(true, up); err != nil {
				return 0, err
			}
			continue
		}
		n := uint16(r[0]&0x3f)<<8 | uint16(r[1])
		d.freq = frequency(n)
		// Leave search mode, steady tuned on the station found.
		if err := d.write(false, false); err != nil {
			return 0, err
		}
		return d.freq, nil
	}
	return 0, fmt.Errorf("tea5767: seek gave up after %d polls", maxSeekPolls)
}

// Halt mutes and parks the tuner in standby. Implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Off()
}

func (d *Dev) String() string {
	return fmt.Sprintf("TEA5767{%s}", d.d)
}
