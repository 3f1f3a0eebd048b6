// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

// Package cdev provides GPIO lines accessed through the Linux GPIO character
// device, as an alternative to the memory mapped access of the root package.
//
// The lines are slower than memory mapped pins, but work on any platform
// with a GPIO chip, not only the Raspberry Pi.
package cdev

import (
	"sync"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/warthog618/gpiod"
)

// Consumer is the label applied to lines requested by this package.
const Consumer = "periphctl"

// Chip is a GPIO chip that lines are requested from.
type Chip struct {
	c *gpiod.Chip
}

// Open opens the named GPIO chip, e.g. "gpiochip0".
func Open(name string) (*Chip, error) {
	c, err := gpiod.NewChip(name, gpiod.WithConsumer(Consumer))
	if err != nil {
		return nil, err
	}
	return &Chip{c: c}, nil
}

// Close releases the chip.
//
// Lines requested from the chip should be closed first.
func (c *Chip) Close() error {
	return c.c.Close()
}

// Lines returns the number of lines on the chip.
func (c *Chip) Lines() int {
	return c.c.Lines()
}

// Line is a single GPIO line requested from a Chip.
//
// The line starts as an input. Writes to an input line are latched and
// driven when the line becomes an output, so a line can emulate open drain
// by writing Low and then switching between Input and Output.
//
// The gpio.Line methods do not return errors, so the first error is held and
// subsequent operations are ignored until it is collected by Err.
type Line struct {
	mu     sync.Mutex
	l      *gpiod.Line
	output bool
	latch  gpio.Level
	err    error
}

// RequestLine requests a line as an input.
func (c *Chip) RequestLine(offset int) (*Line, error) {
	l, err := c.c.RequestLine(offset, gpiod.AsInput)
	if err != nil {
		return nil, err
	}
	return &Line{l: l}, nil
}

// Offset returns the offset of the line on its chip.
func (l *Line) Offset() int {
	return l.l.Offset()
}

// Input sets the line as an input.
func (l *Line) Input() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil || !l.output {
		return
	}
	l.err = l.l.Reconfigure(gpiod.AsInput)
	l.output = false
}

// Output sets the line as an output, driving the latched level.
func (l *Line) Output() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil || l.output {
		return
	}
	l.err = l.l.Reconfigure(gpiod.AsOutput(value(l.latch)))
	l.output = true
}

// High sets the line high.
func (l *Line) High() {
	l.Write(gpio.High)
}

// Low sets the line low.
func (l *Line) Low() {
	l.Write(gpio.Low)
}

// Write sets the line level.
func (l *Line) Write(v gpio.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latch = v
	if l.err != nil || !l.output {
		return
	}
	l.err = l.l.SetValue(value(v))
}

// Read returns the level of the line.
//
// Returns Low if the read fails.
func (l *Line) Read() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return gpio.Low
	}
	v, err := l.l.Value()
	if err != nil {
		l.err = err
		return gpio.Low
	}
	return v != 0
}

// Err returns the first error encountered by the line, and clears it.
func (l *Line) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.err
	l.err = nil
	return err
}

// Close reverts the line to an input and releases it.
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.output {
		l.l.Reconfigure(gpiod.AsInput)
		l.output = false
	}
	return l.l.Close()
}

func value(v gpio.Level) int {
	if v {
		return 1
	}
	return 0
}

var _ gpio.Line = (*Line)(nil)
