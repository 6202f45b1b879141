// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package faceserver provides an HTTP handler serving the simulated
// clock front panel as a PNG image.
//
// The primary use case is developing the clock logic on a host
// machine: drive the display engine into a clockface.Face, mount the
// handler, and watch the panel in a browser tab.
package faceserver

import (
	"image/png"
	"net/http"

	"github.com/RobJansen62/DIY-Digital-Alarm-Clock/clockface"
)

// Handler serves the current picture of a clockface.Face. A request
// gets a fresh snapshot; refresh the page, or let a small script poll
// it, for a moving display.
type Handler struct {
	face *clockface.Face
}

// New returns an http.Handler for face.
func New(face *clockface.Face) *Handler {
	return &Handler{face: face}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		http.Error(w, "only GET is supported", http.StatusMethodNotAllowed)
		return
	}
	img := h.face.Render()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if req.Method == http.MethodHead {
		return
	}
	// A failure here means the client went away mid write; nothing
	// useful to do about it.
	_ = png.Encode(w, img)
}

var _ http.Handler = &Handler{}
