// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wm8731

import (
	"errors"
	"io"
	"time"
)

var (
	// ErrInvalidRegister indicates a read-modify-write of a register that is
	// not shadowed.
	ErrInvalidRegister = errors.New("register not shadowed")
)

// Option specifies a construction option for the Codec.
type Option func(*Codec)

// WithBusInit provides a function called once, by the first Begin, to
// initialise the bus master.
func WithBusInit(init func() error) Option {
	return func(c *Codec) {
		c.busInit = init
	}
}

// WithStartupDelay sets the wait following the first bus initialisation.
func WithStartupDelay(d time.Duration) Option {
	return func(c *Codec) {
		c.startup = d
	}
}

// WithDelay replaces the delay primitive.
func WithDelay(delay func(time.Duration)) Option {
	return func(c *Codec) {
		c.delay = delay
	}
}

// WithTrace logs every register write to w.
func WithTrace(w io.Writer) Option {
	return func(c *Codec) {
		c.trace = w
	}
}
