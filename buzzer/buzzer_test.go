// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package buzzer

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// fakePin records the PWM and Out calls.
type fakePin struct {
	level gpio.Level
	duty  gpio.Duty
	freq  physic.Frequency
	pwm   bool
}

func (p *fakePin) Name() string     { return "BUZZ" }
func (p *fakePin) Number() int      { return 1 }
func (p *fakePin) Function() string { return "Out" }
func (p *fakePin) Halt() error      { return nil }
func (p *fakePin) String() string   { return p.Name() }

func (p *fakePin) Out(l gpio.Level) error {
	p.level = l
	p.pwm = false
	return nil
}

func (p *fakePin) PWM(duty gpio.Duty, f physic.Frequency) error {
	p.duty = duty
	p.freq = f
	p.pwm = true
	return nil
}

var _ gpio.PinOut = &fakePin{}
var _ pin.Pin = &fakePin{}

func TestOnOff(t *testing.T) {
	p := &fakePin{level: gpio.High}
	d, err := New(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.level != gpio.Low {
		t.Error("New expected to silence the pin")
	}
	if d.IsOn() {
		t.Error("IsOn expected false after New")
	}

	if err := d.On(); err != nil {
		t.Fatal(err)
	}
	if !d.IsOn() || !p.pwm || p.duty != gpio.DutyHalf || p.freq != DefaultFrequency {
		t.Errorf("On drove duty=%s freq=%s pwm=%v", p.duty, p.freq, p.pwm)
	}

	if err := d.Off(); err != nil {
		t.Fatal(err)
	}
	if d.IsOn() || p.pwm || p.level != gpio.Low {
		t.Error("Off expected to stop the PWM and drive low")
	}
}

func TestSetFrequency(t *testing.T) {
	p := &fakePin{}
	d, err := New(p, &Opts{Frequency: 2 * physic.KiloHertz})
	if err != nil {
		t.Fatal(err)
	}
	if d.Frequency() != 2*physic.KiloHertz {
		t.Errorf("frequency %s", d.Frequency())
	}

	// Silent: nothing is driven yet.
	if err := d.SetFrequency(3 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if p.pwm {
		t.Error("SetFrequency while silent expected no PWM")
	}

	// Sounding: the tone changes immediately.
	if err := d.On(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFrequency(1 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if p.freq != 1*physic.KiloHertz {
		t.Errorf("PWM frequency %s", p.freq)
	}

	if err := d.SetFrequency(0); err == nil {
		t.Error("zero frequency expected an error")
	}
}

func TestHalt(t *testing.T) {
	p := &fakePin{}
	d, err := New(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.On(); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if d.IsOn() || p.pwm {
		t.Error("Halt expected to silence the beeper")
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) expected an error")
	}
	if _, err := New(&fakePin{}, &Opts{Frequency: -physic.Hertz}); err == nil {
		t.Error("negative frequency expected an error")
	}
}
