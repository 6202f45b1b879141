// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockdisplay

import "github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"

// blankPattern is the all dark segment pattern driven between digits
// and while the display is halted.
var blankPattern = func() segment7.Pattern {
	p, err := segment7.Encode(segment7.Blank)
	if err != nil {
		panic(err)
	}
	return p
}()

// muxState is the phase of the scan cycle. The cycle is fixed:
// each digit phase is followed by one pause tick, the fourth pause
// leads into the brightness phase, and the brightness phase loops on
// itself while dimming ticks remain.
type muxState int

const (
	stateHourTens muxState = iota
	stateHourUnits
	stateMinuteTens
	stateMinuteUnits
	stateBrightness
	statePause
)

// position returns the digit position a content state scans.
func (s muxState) position() Position {
	return Position(s)
}

// following returns the state entered after the pause that follows
// content state s.
func (s muxState) following() muxState {
	if s == stateMinuteUnits {
		return stateBrightness
	}
	return s + 1
}

// Tick advances the engine by one timer period. It is the interrupt
// handler body: call it from the periodic timer and from nowhere else.
// Within one call the half second blink bookkeeping runs strictly
// before the scan phase transition, so a blink toggle and the scan
// line it affects land in the same tick.
//
// The work per call is constant and small, a handful of pin writes at
// worst, to stay well inside the ~116us tick budget.
func (d *Dev) Tick() error {
	d.tickBlink()
	return d.tickMux()
}

// cycleEnding reports whether this tick completes a full scan cycle,
// that is, whether the machine is about to re-enter the hour tens
// phase. With the display off the machine is parked in the brightness
// phase and every tick counts as a degenerate completed cycle, which
// keeps the blink rhythm and PollHalfSecond alive while dark.
func (d *Dev) cycleEnding() bool {
	if d.state != stateBrightness {
		return false
	}
	return d.dimming.Load() == dimmingOff || d.dimCount.Load() == 0
}

// tickBlink runs the half second countdown. The countdown decrements
// once per tick but is only consumed on a tick that completes a full
// scan cycle, so a toggle never lands in the middle of a cycle and
// every blinking element flips between two identical full renders.
func (d *Dev) tickBlink() {
	if d.halfCount > 0 {
		d.halfCount--
	}
	if d.halfCount != 0 || !d.cycleEnding() {
		return
	}
	d.halfCount = d.halfReload
	d.halfLatch.Store(true)
	d.phase = !d.phase
	if d.blinkArmed.Load() {
		d.visible.Store(d.phase)
	}
}

// tickMux performs the scan phase transition for this tick.
func (d *Dev) tickMux() error {
	switch d.state {
	case stateHourTens, stateHourUnits, stateMinuteTens, stateMinuteUnits:
		return d.scanDigit(d.state)
	case statePause:
		// One full blank tick between two digit phases. The segment
		// lines are shared by all four digits; switching their levels
		// while a scan line is still live shows a ghost of the next
		// digit in the current position.
		if err := d.port.DisableAllDigits(); err != nil {
			return err
		}
		if err := d.port.DriveSegments(blankPattern); err != nil {
			return err
		}
		d.state = d.pauseNext
		return nil
	case stateBrightness:
		return d.brightnessPhase()
	}
	return nil
}

// scanDigit drives one digit position and schedules the pause that
// follows it.
func (d *Dev) scanDigit(s muxState) error {
	pos := s.position()
	if err := d.port.DisableDigit(pos.prev()); err != nil {
		return err
	}
	p := segment7.Pattern(d.digits[pos].Load())
	if err := d.port.DriveSegments(p); err != nil {
		return err
	}
	if d.visible.Load() {
		if err := d.port.EnableDigit(pos); err != nil {
			return err
		}
	}
	if pos == HourTens {
		// The indicator bank refreshes here and only here, once per
		// full cycle in step with the first digit. Refreshing every
		// tick changes the lamps' flicker characteristics.
		if err := d.port.SetIndicators(d.renderedIndicators()); err != nil {
			return err
		}
	}
	d.pauseNext = s.following()
	d.state = statePause
	return nil
}

// brightnessPhase is the forced blank phase visited once per cycle. It
// repeats itself once per tick until the dimming countdown runs out,
// which is what makes a dimmed display dark most of the time. It is
// visited even at full brightness and even with the display off, so
// the machine keeps turning and foreground writes are picked up as
// soon as they can be shown.
func (d *Dev) brightnessPhase() error {
	if err := d.port.DisableAllDigits(); err != nil {
		return err
	}
	if err := d.port.SetIndicators(0); err != nil {
		return err
	}
	depth := d.dimming.Load()
	if depth == dimmingOff {
		// Parked. Only a brightness change moves the machine on.
		return nil
	}
	if d.dimCount.Load() == 0 {
		d.dimCount.Store(depth)
		d.state = stateHourTens
		return nil
	}
	d.dimCount.Store(d.dimCount.Load() - 1)
	return nil
}

// renderedIndicators is the mask actually driven to the lamp bank:
// committed lamps, minus blink mode lamps, which follow the shared
// phase bit instead.
func (d *Dev) renderedIndicators() IndicatorMask {
	committed := IndicatorMask(d.committed.Load())
	blinking := IndicatorMask(d.blinkLamps.Load())
	mask := committed &^ blinking
	if d.phase {
		mask |= blinking
	}
	return mask
}
