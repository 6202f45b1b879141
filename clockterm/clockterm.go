// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clockterm implements a clockdisplay.Port that draws the clock
// front panel on the terminal (stdout) using ANSI color codes.
//
// Useful while the real display is still a bag of LEDs and resistors:
// point the engine at it and watch the digits, the dimming and the
// blink rhythm on a single console line.
//
// The terminal has no persistence of vision, so the port reconstructs
// what the eye would see: a digit shows its last scanned pattern and
// goes dark once a full scan cycle passes without its line being
// enabled.
package clockterm

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/clockdisplay"
	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this port.
type Opts struct {
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Writer defaults to a colorable stdout. Tests point it at a
	// buffer.
	Writer io.Writer

	_ struct{}
}

// Dev is a clock front panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette

	segments segment7.Pattern
	shown    [4]segment7.Pattern
	scanned  [4]bool
	lamps    clockdisplay.IndicatorMask
	wasBlank bool // previous port action forced all lines off
	darkRun  int  // consecutive forced dark lamp latches
	buf      bytes.Buffer
	rendered string
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, palette: *p}
}

func (d *Dev) String() string {
	return "ClockTerm"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// DriveSegments implements clockdisplay.Port.
func (d *Dev) DriveSegments(p segment7.Pattern) error {
	d.segments = p
	d.wasBlank = false
	return nil
}

// EnableDigit implements clockdisplay.Port. The position takes on the
// pattern currently on the segment lines, like the LEDs would.
func (d *Dev) EnableDigit(pos clockdisplay.Position) error {
	d.shown[pos] = d.segments
	d.scanned[pos] = true
	d.wasBlank = false
	return d.refresh()
}

// DisableDigit implements clockdisplay.Port. The afterglow keeps the
// digit readable between scans.
func (d *Dev) DisableDigit(pos clockdisplay.Position) error {
	d.wasBlank = false
	return nil
}

// DisableAllDigits implements clockdisplay.Port.
func (d *Dev) DisableAllDigits() error {
	d.wasBlank = true
	return nil
}

// maxDarkRun is the longest stretch of forced dark brightness ticks a
// dimmed but visible display produces per cycle. A longer run means
// the display is actually off.
const maxDarkRun = 31

// SetIndicators implements clockdisplay.Port.
//
// The engine drives the lamp bank from two places: the hour tens phase
// latches the real mask once per scan cycle, and every brightness
// phase tick forces it dark right after all scan lines go off. The eye
// integrates the short dark stretch away, so a dark latch only blanks
// the picture when the run of them grows past what dimming can
// produce. The real latch is the cycle boundary: digits whose line was
// not enabled during the last full cycle have gone dark for the eye.
func (d *Dev) SetIndicators(mask clockdisplay.IndicatorMask) error {
	if d.wasBlank {
		d.wasBlank = false
		d.darkRun++
		if d.darkRun <= maxDarkRun {
			return nil
		}
		for ix := range d.shown {
			d.shown[ix] = 0
			d.scanned[ix] = false
		}
		d.lamps = 0
		return d.refresh()
	}
	d.darkRun = 0
	d.lamps = mask
	for ix := range d.shown {
		if !d.scanned[ix] {
			d.shown[ix] = 0
		}
		d.scanned[ix] = false
	}
	return d.refresh()
}

var (
	litLamp  = color.NRGBA{R: 0xff, A: 0xff}
	darkLamp = color.NRGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}
)

// refresh redraws the console line if the picture changed. This code is
// designed to minimize the amount of memory allocated per call.
func (d *Dev) refresh() error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m\033[1m")
	d.buf.WriteRune(segment7.Rune(d.shown[clockdisplay.HourTens]))
	d.buf.WriteRune(segment7.Rune(d.shown[clockdisplay.HourUnits]))
	if d.lamps.Has(clockdisplay.Seconds) {
		d.buf.WriteRune(':')
	} else {
		d.buf.WriteRune(' ')
	}
	d.buf.WriteRune(segment7.Rune(d.shown[clockdisplay.MinuteTens]))
	d.buf.WriteRune(segment7.Rune(d.shown[clockdisplay.MinuteUnits]))
	_, _ = d.buf.WriteString("\033[0m ")
	for i := clockdisplay.Indicator(0); i < 6; i++ {
		if i == clockdisplay.Seconds {
			continue // already drawn as the colon
		}
		c := darkLamp
		if d.lamps.Has(i) {
			c = litLamp
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	line := d.buf.String()
	if line == d.rendered {
		return nil
	}
	d.rendered = line
	_, err := io.WriteString(d.w, line)
	return err
}

var _ clockdisplay.Port = &Dev{}
var _ fmt.Stringer = &Dev{}
