// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clockface implements a clockdisplay.Port that reconstructs
// what the eye sees on the multiplexed panel and renders it to an
// image: four 7-segment digits drawn as real segment bars, the colon,
// and the labeled indicator lamps.
//
// Point the display engine at a Face and call Render whenever a
// picture is wanted; faceserver serves the result over HTTP.
package clockface

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/clockdisplay"
	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/segment7"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Opts represents the options available for this port.
type Opts struct {
	// Scale multiplies the base geometry of 160x64 pixels. 0 means 2.
	Scale int

	_ struct{}
}

// Base geometry, multiplied by Opts.Scale.
const (
	baseWidth  = 160
	baseHeight = 64

	segLen   = 14.0
	segThick = 4.0
	digitGap = 8.0
	originX  = 10.0
	originY  = 8.0
)

var (
	background = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	litColor   = color.NRGBA{R: 0xff, G: 0x20, B: 0x10, A: 0xff}
	ghostColor = color.NRGBA{R: 0x2c, G: 0x16, B: 0x12, A: 0xff}
)

// lampLabels in clockdisplay.Indicator order, skipping Seconds which is
// drawn as the colon.
var lampLabels = [...]string{"RAD1", "BEEP1", "RAD2", "BEEP2", "TENS"}

// maxDarkRun is the longest stretch of forced dark brightness ticks a
// dimmed but visible display produces per cycle.
const maxDarkRun = 31

// Face reconstructs and draws the front panel.
type Face struct {
	scale int
	font  *truetype.Font

	mu       sync.Mutex
	segments segment7.Pattern
	shown    [4]segment7.Pattern
	scanned  [4]bool
	lamps    clockdisplay.IndicatorMask
	wasBlank bool
	darkRun  int
}

// New returns a Face ready to be used as a clockdisplay.Port.
func New(opts *Opts) (*Face, error) {
	if opts == nil {
		opts = &Opts{}
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 2
	}
	if scale < 1 || scale > 16 {
		return nil, fmt.Errorf("clockface: scale %d out of range", scale)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("clockface: %w", err)
	}
	return &Face{scale: scale, font: f}, nil
}

func (f *Face) String() string {
	return "ClockFace"
}

// Halt implements conn.Resource.
func (f *Face) Halt() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = [4]segment7.Pattern{}
	f.scanned = [4]bool{}
	f.lamps = 0
	return nil
}

// Bounds returns the size of rendered images.
func (f *Face) Bounds() image.Rectangle {
	return image.Rect(0, 0, baseWidth*f.scale, baseHeight*f.scale)
}

// DriveSegments implements clockdisplay.Port.
func (f *Face) DriveSegments(p segment7.Pattern) error {
	f.mu.Lock()
	f.segments = p
	f.wasBlank = false
	f.mu.Unlock()
	return nil
}

// EnableDigit implements clockdisplay.Port.
func (f *Face) EnableDigit(pos clockdisplay.Position) error {
	f.mu.Lock()
	f.shown[pos] = f.segments
	f.scanned[pos] = true
	f.wasBlank = false
	f.mu.Unlock()
	return nil
}

// DisableDigit implements clockdisplay.Port.
func (f *Face) DisableDigit(pos clockdisplay.Position) error {
	f.mu.Lock()
	f.wasBlank = false
	f.mu.Unlock()
	return nil
}

// DisableAllDigits implements clockdisplay.Port.
func (f *Face) DisableAllDigits() error {
	f.mu.Lock()
	f.wasBlank = true
	f.mu.Unlock()
	return nil
}

// SetIndicators implements clockdisplay.Port. The same eye model as
// clockterm: the real once-per-cycle latch refreshes the lamps and
// decays digits that went a full cycle without a scan, and a run of
// forced dark latches longer than dimming can produce means the
// display is off.
func (f *Face) SetIndicators(mask clockdisplay.IndicatorMask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wasBlank {
		f.wasBlank = false
		f.darkRun++
		if f.darkRun > maxDarkRun {
			f.shown = [4]segment7.Pattern{}
			f.scanned = [4]bool{}
			f.lamps = 0
		}
		return nil
	}
	f.darkRun = 0
	f.lamps = mask
	for ix := range f.shown {
		if !f.scanned[ix] {
			f.shown[ix] = 0
		}
		f.scanned[ix] = false
	}
	return nil
}

// Render draws the current picture.
func (f *Face) Render() image.Image {
	f.mu.Lock()
	shown := f.shown
	lamps := f.lamps
	f.mu.Unlock()

	s := float64(f.scale)
	dc := gg.NewContext(baseWidth*f.scale, baseHeight*f.scale)
	dc.SetColor(background)
	dc.Clear()

	digitW := segLen + 2*segThick
	x := originX
	for pos := range shown {
		if pos == 2 {
			f.drawColon(dc, x, lamps.Has(clockdisplay.Seconds))
			x += digitGap
		}
		f.drawDigit(dc, x, originY, shown[pos])
		x += digitW + digitGap
	}

	face := truetype.NewFace(f.font, &truetype.Options{Size: 7 * s})
	dc.SetFontFace(face)
	lampY := (originY + 2*segLen + 3*segThick + 10) * s
	lampX := originX * s
	label := 0
	for i := clockdisplay.Indicator(0); label < len(lampLabels); i++ {
		if i == clockdisplay.Seconds {
			continue
		}
		if lamps.Has(i) {
			dc.SetColor(litColor)
		} else {
			dc.SetColor(ghostColor)
		}
		dc.DrawCircle(lampX+3*s, lampY, 3*s)
		dc.Fill()
		dc.DrawString(lampLabels[label], lampX+8*s, lampY+3*s)
		lampX += 28 * s
		label++
	}
	return dc.Image()
}

// drawDigit draws the seven segment bars of one digit at x, y in base
// coordinates.
func (f *Face) drawDigit(dc *gg.Context, x, y float64, p segment7.Pattern) {
	// Per segment: x, y, width, height, in base coordinates relative
	// to the digit cell. Order a-g.
	bars := [7][4]float64{
		{segThick, 0, segLen, segThick},
		{segThick + segLen, segThick, segThick, segLen},
		{segThick + segLen, 2*segThick + segLen, segThick, segLen},
		{segThick, 2*segThick + 2*segLen, segLen, segThick},
		{0, 2*segThick + segLen, segThick, segLen},
		{0, segThick, segThick, segLen},
		{segThick, segThick + segLen, segLen, segThick},
	}
	s := float64(f.scale)
	for seg := range bars {
		if p.Segment(seg) {
			dc.SetColor(litColor)
		} else {
			dc.SetColor(ghostColor)
		}
		b := bars[seg]
		dc.DrawRoundedRectangle((x+b[0])*s, (y+b[1])*s, b[2]*s, b[3]*s, s)
		dc.Fill()
	}
}

// drawColon draws the seconds colon between the hour and minute pair.
func (f *Face) drawColon(dc *gg.Context, x float64, lit bool) {
	if lit {
		dc.SetColor(litColor)
	} else {
		dc.SetColor(ghostColor)
	}
	s := float64(f.scale)
	cy := originY + segThick + segLen
	dc.DrawCircle((x+2)*s, (cy-4)*s, 1.5*s)
	dc.Fill()
	dc.DrawCircle((x+2)*s, (cy+4)*s, 1.5*s)
	dc.Fill()
}

var _ clockdisplay.Port = &Face{}
