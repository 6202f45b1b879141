// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockdisplay

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
)

// Dimming depth values derived from the coarse brightness level. The
// depth is the number of extra blank ticks inserted per scan cycle;
// 31 means the display is off entirely.
const (
	maxDimming  = 30
	dimmingStep = 10
	dimmingOff  = 31

	// BrightnessOff is the coarse level that switches the display off.
	BrightnessOff = 4

	maxBrightness = 3
)

// Opts holds the options for the display engine.
type Opts struct {
	// HalfSecondTicks overrides the blink half period, in ticks. Leave
	// zero for the HalfSecondTicks constant. Tests use small values so
	// a blink interval is a handful of ticks instead of 4300.
	HalfSecondTicks int
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{}

// Dev is the display engine. Create one with New, feed it ticks from a
// periodic timer, and set content from the foreground at any time.
type Dev struct {
	port       Port
	halfReload uint32

	// Cells written by the foreground and read by the tick handler.
	// One cell per setter call, so a reader can never see a torn
	// multi-field update.
	digits     [numPositions]atomic.Uint32 // segment7.Pattern per position
	committed  atomic.Uint32               // IndicatorMask, lamp on/off
	blinkLamps atomic.Uint32               // IndicatorMask, lamps in blink mode
	dimming    atomic.Uint32               // target dimming depth
	dimCount   atomic.Uint32               // blank ticks left in the brightness phase
	blinkArmed atomic.Bool                 // display wide blink requested
	visible    atomic.Bool                 // digits currently shown
	steady     atomic.Bool                 // visibility to restore after blink
	halfLatch  atomic.Bool                 // half second elapsed, read and clear

	// State owned exclusively by Tick.
	state     muxState
	pauseNext muxState
	halfCount uint32
	phase     bool
}

// New returns a display engine driving port, blanked, at full
// brightness, with all indicators off.
func New(port Port, opts *Opts) (*Dev, error) {
	if port == nil {
		return nil, fmt.Errorf("clockdisplay: port is required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	half := opts.HalfSecondTicks
	if half == 0 {
		half = HalfSecondTicks
	}
	if half < 0 {
		return nil, fmt.Errorf("clockdisplay: invalid blink half period %d", half)
	}
	d := &Dev{port: port, halfReload: uint32(half)}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init blanks the outputs and resets every piece of volatile state.
func (d *Dev) init() error {
	for ix := range d.digits {
		d.digits[ix].Store(uint32(blankPattern))
	}
	d.committed.Store(0)
	d.blinkLamps.Store(0)
	d.blinkArmed.Store(false)
	d.visible.Store(true)
	d.steady.Store(true)
	d.halfLatch.Store(false)
	d.state = stateHourTens
	d.pauseNext = stateHourTens
	d.halfCount = d.halfReload
	d.phase = false
	if err := d.SetBrightness(maxBrightness); err != nil {
		return err
	}
	if err := d.port.DisableAllDigits(); err != nil {
		return err
	}
	if err := d.port.DriveSegments(blankPattern); err != nil {
		return err
	}
	return d.port.SetIndicators(0)
}

// SetDigit puts the pattern for sym at position pos on the next scan of
// that position.
func (d *Dev) SetDigit(pos Position, sym segment7.Symbol) error {
	if pos < 0 || pos >= numPositions {
		return fmt.Errorf("clockdisplay: invalid digit position %d", int(pos))
	}
	p, err := segment7.Encode(sym)
	if err != nil {
		return fmt.Errorf("clockdisplay: %w", err)
	}
	d.digits[pos].Store(uint32(p))
	return nil
}

// SetHours shows hours on the two left digits. A leading zero is
// suppressed: 7 o'clock reads " 7", not "07".
func (d *Dev) SetHours(hours int) error {
	if hours < 0 || hours > 99 {
		return fmt.Errorf("clockdisplay: hours %d out of range", hours)
	}
	tens := segment7.Blank
	if hours >= 10 {
		tens = segment7.Symbol(hours / 10)
	}
	if err := d.SetDigit(HourTens, tens); err != nil {
		return err
	}
	return d.SetDigit(HourUnits, segment7.Symbol(hours%10))
}

// SetMinutes shows minutes on the two right digits, always with both
// digits, so 5 past reads "05".
func (d *Dev) SetMinutes(minutes int) error {
	if minutes < 0 || minutes > 99 {
		return fmt.Errorf("clockdisplay: minutes %d out of range", minutes)
	}
	if err := d.SetDigit(MinuteTens, segment7.Symbol(minutes/10)); err != nil {
		return err
	}
	return d.SetDigit(MinuteUnits, segment7.Symbol(minutes%10))
}

// IndicatorOn lights lamp i steadily. Any blink mode on that lamp is
// cancelled; a direct call always wins over blinking.
func (d *Dev) IndicatorOn(i Indicator) error {
	return d.setIndicator(i, true)
}

// IndicatorOff turns lamp i off and cancels its blink mode.
func (d *Dev) IndicatorOff(i Indicator) error {
	return d.setIndicator(i, false)
}

func (d *Dev) setIndicator(i Indicator, on bool) error {
	if i < 0 || i >= numIndicators {
		return fmt.Errorf("clockdisplay: invalid indicator %d", int(i))
	}
	bit := uint32(i.bit())
	d.blinkLamps.Store(d.blinkLamps.Load() &^ bit)
	if on {
		d.committed.Store(d.committed.Load() | bit)
	} else {
		d.committed.Store(d.committed.Load() &^ bit)
	}
	return nil
}

// IndicatorBlink puts lamp i in blink mode: lit during one half second
// phase, dark during the other, in lock step with every other blinking
// lamp and with display blink.
func (d *Dev) IndicatorBlink(i Indicator) error {
	if i < 0 || i >= numIndicators {
		return fmt.Errorf("clockdisplay: invalid indicator %d", int(i))
	}
	d.blinkLamps.Store(d.blinkLamps.Load() | uint32(i.bit()))
	return nil
}

// Indicators returns the committed on/off mask. Lamps in blink mode are
// not part of it.
func (d *Dev) Indicators() IndicatorMask {
	return IndicatorMask(d.committed.Load())
}

// BlinkOn makes all four digits blink on the half second rhythm. The
// current steady visibility is kept aside and restored by BlinkOff.
func (d *Dev) BlinkOn() {
	if d.blinkArmed.Load() {
		return
	}
	d.steady.Store(d.visible.Load())
	d.blinkArmed.Store(true)
}

// BlinkOff stops digit blinking and restores the visibility the display
// had when BlinkOn was called.
func (d *Dev) BlinkOff() {
	if !d.blinkArmed.Load() {
		return
	}
	d.blinkArmed.Store(false)
	d.visible.Store(d.steady.Load())
}

// SetBrightness sets the coarse brightness level, 0 (dimmest) to 3
// (brightest), or BrightnessOff. Switching off leaves the dimming
// countdown alone so restoring brightness picks up where it left off.
func (d *Dev) SetBrightness(level int) error {
	if level < 0 || level > BrightnessOff {
		return fmt.Errorf("clockdisplay: brightness level %d out of range", level)
	}
	if level == BrightnessOff {
		d.dimming.Store(dimmingOff)
		return nil
	}
	depth := uint32(maxDimming - dimmingStep*level)
	d.dimming.Store(depth)
	d.dimCount.Store(depth)
	return nil
}

// Brightness returns the coarse level last set, BrightnessOff if the
// display is off.
func (d *Dev) Brightness() int {
	depth := d.dimming.Load()
	if depth == dimmingOff {
		return BrightnessOff
	}
	return int(maxDimming-depth) / dimmingStep
}

// DecreaseBrightness steps the display one level dimmer. From the
// dimmest level it wraps to off, and from off back to full brightness,
// so repeated calls cycle through all five levels.
func (d *Dev) DecreaseBrightness() error {
	level := d.Brightness()
	if level == 0 {
		return d.SetBrightness(BrightnessOff)
	}
	return d.SetBrightness(level - 1)
}

// IsOn reports whether the display is showing anything, that is, the
// brightness level is not BrightnessOff.
func (d *Dev) IsOn() bool {
	return d.dimming.Load() != dimmingOff
}

// PollHalfSecond reports whether a blink half period elapsed since the
// previous call. The latch is cleared by reading it. The foreground
// uses this to keep its own bookkeeping, like the seconds lamp, in step
// with the blink rhythm.
func (d *Dev) PollHalfSecond() bool {
	return d.halfLatch.Swap(false)
}

// Run advances the engine from a time.Ticker at TickFrequency until ctx
// is cancelled. It is a convenience for hosts without a hardware timer
// interrupt; the handler of a real timer calls Tick directly.
func (d *Dev) Run(ctx context.Context) error {
	t := time.NewTicker(TickFrequency.Period())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := d.Tick(); err != nil {
				return err
			}
		}
	}
}

// Halt blanks the display and the lamps. Implements conn.Resource.
func (d *Dev) Halt() error {
	if err := d.port.DisableAllDigits(); err != nil {
		return err
	}
	if err := d.port.DriveSegments(blankPattern); err != nil {
		return err
	}
	return d.port.SetIndicators(0)
}

func (d *Dev) String() string {
	return "ClockDisplay"
}
