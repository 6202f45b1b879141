// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keypad

import (
	"fmt"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/pin"
)

const everyKeyUp = gpio.GPIOValue(allKeys)

// scriptGroup plays back a script of raw pin levels, one entry per
// Read, repeating the last entry when the script runs out.
type scriptGroup struct {
	script []gpio.GPIOValue
	reads  int
}

func (g *scriptGroup) Pins() []pin.Pin {
	result := make([]pin.Pin, numKeys)
	for ix := range result {
		result[ix] = &gpiotest.Pin{N: Key(ix).String(), Num: ix}
	}
	return result
}

func (g *scriptGroup) ByOffset(offset int) pin.Pin { return g.Pins()[offset] }
func (g *scriptGroup) ByName(string) pin.Pin       { return nil }
func (g *scriptGroup) ByNumber(int) pin.Pin        { return nil }

func (g *scriptGroup) Out(gpio.GPIOValue, gpio.GPIOValue) error {
	return fmt.Errorf("keypad group is read only")
}

func (g *scriptGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	ix := g.reads
	if ix >= len(g.script) {
		ix = len(g.script) - 1
	}
	g.reads++
	return g.script[ix] & mask, nil
}

func (g *scriptGroup) WaitForEdge(time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, fmt.Errorf("no edge support")
}

func (g *scriptGroup) Halt() error    { return nil }
func (g *scriptGroup) String() string { return "KEYS" }

var _ gpio.Group = &scriptGroup{}

// newTestDev returns a Dev whose sleeps are recorded, not taken.
func newTestDev(t *testing.T, script ...gpio.GPIOValue) (*Dev, *scriptGroup, *[]time.Duration) {
	t.Helper()
	g := &scriptGroup{script: script}
	d, err := New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	var slept []time.Duration
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }
	return d, g, &slept
}

// down returns the raw levels with the masked keys pulled low.
func down(mask Mask) gpio.GPIOValue {
	return everyKeyUp &^ gpio.GPIOValue(mask)
}

func TestIsPressedDebounces(t *testing.T) {
	d, g, slept := newTestDev(t, down(Snooze.Bit()), down(Snooze.Bit()))
	pressed, err := d.IsPressed(Snooze.Bit())
	if err != nil {
		t.Fatal(err)
	}
	if !pressed {
		t.Error("expected Snooze pressed")
	}
	if g.reads != 2 {
		t.Errorf("expected 2 samples, got %d", g.reads)
	}
	if len(*slept) != 1 || (*slept)[0] != DefaultDebounce {
		t.Errorf("expected one debounce sleep, got %v", *slept)
	}
}

func TestIsPressedRejectsBounce(t *testing.T) {
	// Down on the first sample, up again on the second.
	d, _, _ := newTestDev(t, down(Hours.Bit()), everyKeyUp)
	pressed, err := d.IsPressed(Hours.Bit())
	if err != nil {
		t.Fatal(err)
	}
	if pressed {
		t.Error("a bouncing key must not register")
	}
}

func TestIsPressedSkipsDebounceWhenUp(t *testing.T) {
	d, g, slept := newTestDev(t, everyKeyUp)
	pressed, err := d.IsPressed(Minutes.Bit())
	if err != nil {
		t.Fatal(err)
	}
	if pressed {
		t.Error("expected no key pressed")
	}
	if g.reads != 1 {
		t.Errorf("an idle keypad needs one sample, got %d", g.reads)
	}
	if len(*slept) != 0 {
		t.Errorf("an idle keypad must not sleep, slept %v", *slept)
	}
}

func TestIsPressedChord(t *testing.T) {
	chord := SetTime.Bit() | Hours.Bit()
	d, _, _ := newTestDev(t, down(chord), down(chord))
	pressed, err := d.IsPressed(chord)
	if err != nil {
		t.Fatal(err)
	}
	if !pressed {
		t.Error("expected the chord pressed")
	}

	// One key of the chord is not the chord.
	d, _, _ = newTestDev(t, down(SetTime.Bit()), down(SetTime.Bit()))
	pressed, err = d.IsPressed(chord)
	if err != nil {
		t.Fatal(err)
	}
	if pressed {
		t.Error("a partial chord must not register")
	}
}

func TestIsReleased(t *testing.T) {
	d, _, _ := newTestDev(t, down(Radio.Bit()), everyKeyUp)
	released, err := d.IsReleased()
	if err != nil {
		t.Fatal(err)
	}
	if released {
		t.Error("expected Radio still down")
	}
	released, err = d.IsReleased()
	if err != nil {
		t.Fatal(err)
	}
	if !released {
		t.Error("expected every key up")
	}
}

func TestIsHeldLong(t *testing.T) {
	d, g, _ := newTestDev(t, down(SetAlarm.Bit()))
	held, err := d.IsHeldLong(SetAlarm.Bit())
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Error("expected the key held")
	}
	wantPolls := int(DefaultHold / holdPollInterval)
	if g.reads != wantPolls {
		t.Errorf("expected %d polls, got %d", wantPolls, g.reads)
	}
}

func TestIsHeldLongStopsOnRelease(t *testing.T) {
	d, g, _ := newTestDev(t, down(SetAlarm.Bit()), down(SetAlarm.Bit()), everyKeyUp)
	held, err := d.IsHeldLong(SetAlarm.Bit())
	if err != nil {
		t.Fatal(err)
	}
	if held {
		t.Error("a released key must not count as held")
	}
	if g.reads != 3 {
		t.Errorf("expected the poll to stop at the release, got %d reads", g.reads)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected an error for a nil group")
	}
}

func TestCustomTiming(t *testing.T) {
	g := &scriptGroup{script: []gpio.GPIOValue{down(Snooze.Bit())}}
	d, err := New(g, &Opts{Debounce: time.Millisecond, Hold: 4 * holdPollInterval})
	if err != nil {
		t.Fatal(err)
	}
	var slept []time.Duration
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }

	if pressed, err := d.IsPressed(Snooze.Bit()); err != nil || !pressed {
		t.Fatalf("IsPressed = %v, %v", pressed, err)
	}
	if (slept)[0] != time.Millisecond {
		t.Errorf("expected the configured debounce, slept %v", slept[0])
	}

	g.reads = 0
	if held, err := d.IsHeldLong(Snooze.Bit()); err != nil || !held {
		t.Fatalf("IsHeldLong = %v, %v", held, err)
	}
	if g.reads != 4 {
		t.Errorf("expected 4 polls, got %d", g.reads)
	}
}

func TestKeyString(t *testing.T) {
	if got := Snooze.String(); got != "Snooze" {
		t.Errorf("Snooze.String() = %q", got)
	}
	if got := Key(42).String(); got != "Key(42)" {
		t.Errorf("Key(42).String() = %q", got)
	}
}
