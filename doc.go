// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package clock is a container for the drivers of a DIY digital alarm
// clock: a multiplexed 4 digit 7-segment display with indicator lamps,
// and the small peripherals around it (tone generator, FM tuner, volume
// potentiometer, debounced keypad).
//
// The display engine in clockdisplay is the interesting part. It is a
// tick driven state machine meant to be advanced from a periodic timer
// at about 8.6kHz, and it can just as well be advanced from a test at
// whatever rate you like.
package clock
