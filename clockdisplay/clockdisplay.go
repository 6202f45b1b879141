// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clockdisplay drives a multiplexed 4 digit 7-segment display
// with six indicator lamps, the front panel of a DIY alarm clock.
//
// The four digits share one set of segment lines; only the per digit
// scan (enable) line differs. The driver walks the digit positions one
// per timer tick with a forced blank tick between them, inserts extra
// blank ticks to dim the display, and keeps a half second blink rhythm
// that both the digits and the indicator lamps can be synchronized to.
//
// Advance the engine by calling Tick from a periodic timer at about
// TickFrequency, or use Run. Everything else on Dev may be called from
// ordinary foreground code while the ticks keep coming; each setter
// publishes a single value at a time so the tick handler never observes
// a torn update.
package clockdisplay

import (
	"fmt"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
	"periph.io/x/conn/v3/physic"
)

// TickFrequency is the timer rate the engine is designed for. At this
// rate a full scan cycle at full brightness takes 9 ticks, fast enough
// that the eye sees four steadily lit digits.
const TickFrequency = 8600 * physic.Hertz

// HalfSecondTicks is the number of ticks in one blink half period at
// TickFrequency.
const HalfSecondTicks = 4300

// Position identifies one of the four digit positions. The scan order
// is hour tens first.
type Position int

const (
	HourTens Position = iota
	HourUnits
	MinuteTens
	MinuteUnits

	numPositions = 4
)

var positionNames = [numPositions]string{"HourTens", "HourUnits", "MinuteTens", "MinuteUnits"}

func (p Position) String() string {
	if p < 0 || p >= numPositions {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// prev returns the position whose scan line was driven before p in the
// cycle.
func (p Position) prev() Position {
	if p == HourTens {
		return MinuteUnits
	}
	return p - 1
}

// Indicator identifies one of the six indicator lamps.
type Indicator int

const (
	// Seconds is the lamp pulsed once a second between hours and
	// minutes.
	Seconds Indicator = iota
	// Radio1 and Beep1 show the mode of the first alarm.
	Radio1
	Beep1
	// Radio2 and Beep2 show the mode of the second alarm.
	Radio2
	Beep2
	// Tens is the auxiliary lamp left of the hour tens digit.
	Tens

	numIndicators = 6
)

var indicatorNames = [numIndicators]string{"Seconds", "Radio1", "Beep1", "Radio2", "Beep2", "Tens"}

func (i Indicator) String() string {
	if i < 0 || i >= numIndicators {
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
	return indicatorNames[i]
}

func (i Indicator) bit() IndicatorMask {
	return 1 << uint(i)
}

// IndicatorMask is a bitmask over the six indicator lamps, bit 0 being
// Seconds.
type IndicatorMask byte

// AllIndicators has every lamp bit set.
const AllIndicators IndicatorMask = 1<<numIndicators - 1

// Has reports whether the lamp bit for i is set in m.
func (m IndicatorMask) Has(i Indicator) bool {
	return m&i.bit() != 0
}

// Port is the output side of the display: the shared segment lines, the
// four scan lines and the indicator bank. The engine is the only caller
// during operation, exactly one implementation method is invoked per
// action, and at most one scan line is ever enabled at a time.
type Port interface {
	// DriveSegments puts p on the shared segment lines.
	DriveSegments(p segment7.Pattern) error
	// EnableDigit turns the scan line for pos on.
	EnableDigit(pos Position) error
	// DisableDigit turns the scan line for pos off.
	DisableDigit(pos Position) error
	// DisableAllDigits turns every scan line off.
	DisableAllDigits() error
	// SetIndicators drives the indicator bank to exactly mask.
	SetIndicators(mask IndicatorMask) error
}
