// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segment7 encodes a small fixed alphabet into 7-segment
// activation patterns.
//
// The bit order is the common gfedcba layout: bit 0 is segment a (top),
// bit 6 is segment g (middle). Bit 7 is never set; a decimal point, if
// the hardware has one, is driven separately.
package segment7

import "fmt"

// Pattern is the segment activation pattern for one digit position. Only
// the low 7 bits are meaningful.
type Pattern byte

// Symbol is an index into the encoder alphabet. Values 0-9 are the
// decimal digits, 10-15 the hex digits A-F, and the two reserved
// symbols follow.
type Symbol byte

const (
	// Hyphen is the "-" placeholder, segment g alone.
	Hyphen Symbol = 16
	// Blank is the all-segments-off placeholder.
	Blank Symbol = 17

	symbolCount = 18
)

// patterns is the only source of Pattern values in the repository. Layout
// is gfedcba, matching the common cathode displays this clock is built
// from.
var patterns = [symbolCount]Pattern{
	0x3f, // 0
	0x06, // 1
	0x5b, // 2
	0x4f, // 3
	0x66, // 4
	0x6d, // 5
	0x7d, // 6
	0x07, // 7
	0x7f, // 8
	0x6f, // 9
	0x77, // A
	0x7c, // b
	0x39, // C
	0x5e, // d
	0x79, // E
	0x71, // F
	0x40, // -
	0x00, // blank
}

// runes maps a symbol index to a printable rune for the simulators.
var runes = [symbolCount]rune{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'A', 'b', 'C', 'd', 'E', 'F', '-', ' ',
}

// Encode returns the segment pattern for sym. Symbols outside the
// alphabet are an error.
func Encode(sym Symbol) (Pattern, error) {
	if sym >= symbolCount {
		return 0, fmt.Errorf("segment7: symbol %d out of range", sym)
	}
	return patterns[sym], nil
}

// Digit returns the symbol for a decimal or hex digit value 0-15.
func Digit(value int) (Symbol, error) {
	if value < 0 || value > 15 {
		return Blank, fmt.Errorf("segment7: digit value %d out of range", value)
	}
	return Symbol(value), nil
}

// Rune returns a printable representation of p, or '?' if p is not a
// pattern from the encoder table. Intended for the terminal and image
// simulators, not for driving hardware.
func Rune(p Pattern) rune {
	for ix, known := range patterns {
		if known == p {
			return runes[ix]
		}
	}
	return '?'
}

// Segment reports whether segment n (0=a .. 6=g) is lit in p.
func (p Pattern) Segment(n int) bool {
	if n < 0 || n > 6 {
		return false
	}
	return p&(1<<n) != 0
}

func (p Pattern) String() string {
	return fmt.Sprintf("segment7.Pattern(%#02x %q)", byte(p), Rune(p))
}
