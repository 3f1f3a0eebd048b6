// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package i2c provides I2C masters for driving control interfaces such as
// codec register files.
//
// I2C is bit bashed over two GPIO lines emulating open drain outputs, while
// Dev uses a Linux /dev/i2c-N adapter. Both implement drivers.I2C.
package i2c

import (
	"sync"
	"time"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"tinygo.org/x/drivers"
)

// DefaultFrequency is the standard mode clock rate.
const DefaultFrequency = 100000

// Config holds the transfer parameters of the bus.
type Config struct {
	// Frequency is the clock rate in Hz.
	// Zero selects DefaultFrequency.
	Frequency uint32
}

// I2C represents an I2C bus using 2 GPIO lines.
//
// The lines are never driven high. A line is released by switching it to an
// input and relying on the bus pull-up, and pulled low by switching it to an
// output with its latch held low.
// Clock stretching by slaves is not supported.
type I2C struct {
	mu sync.Mutex
	// time between clock edges (i.e. half the cycle time)
	tclk  time.Duration
	scl   gpio.Line
	sda   gpio.Line
	sleep func(time.Duration)
}

var _ drivers.I2C = (*I2C)(nil)

// New creates an I2C.
//
// New does not touch the lines. Configure releases them and checks the bus
// is idle.
func New(scl, sda gpio.Line, options ...Option) *I2C {
	b := &I2C{
		tclk:  halfCycle(DefaultFrequency),
		scl:   scl,
		sda:   sda,
		sleep: time.Sleep,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Option specifies a construction option for the I2C.
type Option func(*I2C)

// WithSleep replaces the delay used between clock edges.
func WithSleep(sleep func(time.Duration)) Option {
	return func(b *I2C) {
		b.sleep = sleep
	}
}

// Configure sets the clock rate and returns both lines to the idle (released)
// state.
func (b *I2C) Configure(cfg Config) error {
	f := cfg.Frequency
	if f == 0 {
		f = DefaultFrequency
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tclk = halfCycle(f)
	b.scl.Low()
	b.sda.Low()
	b.release(b.scl)
	b.release(b.sda)
	if b.sda.Read() == gpio.Low || b.scl.Read() == gpio.Low {
		return ErrBusBusy
	}
	return nil
}

// Close releases both lines.
func (b *I2C) Close() {
	b.mu.Lock()
	b.release(b.scl)
	b.release(b.sda)
	b.mu.Unlock()
}

// Tx performs a write of w, followed by a read into r, with the slave at addr.
//
// Either may be empty. A combined transaction uses a repeated start between
// the write and the read. Returns ErrNack if the slave fails to acknowledge
// its address or a written byte.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(w) > 0 || len(r) == 0 {
		b.start()
		err := b.writeByte(byte(addr<<1) | 0)
		for i := 0; err == nil && i < len(w); i++ {
			err = b.writeByte(w[i])
		}
		if err != nil {
			b.stop()
			return err
		}
	}
	if len(r) > 0 {
		b.start()
		if err := b.writeByte(byte(addr<<1) | 1); err != nil {
			b.stop()
			return err
		}
		for i := range r {
			r[i] = b.readByte(i < len(r)-1)
		}
	}
	b.stop()
	return nil
}

// start issues a start, or repeated start, condition.
//
// Ends with SCL low.
func (b *I2C) start() {
	b.release(b.sda)
	b.sleep(b.tclk)
	b.release(b.scl)
	b.sleep(b.tclk)
	b.pull(b.sda)
	b.sleep(b.tclk)
	b.pull(b.scl)
}

// stop issues a stop condition.
//
// Starts with SCL low and ends with both lines released.
func (b *I2C) stop() {
	b.pull(b.sda)
	b.sleep(b.tclk)
	b.release(b.scl)
	b.sleep(b.tclk)
	b.release(b.sda)
	b.sleep(b.tclk)
}

func (b *I2C) writeByte(v byte) error {
	for i := 7; i >= 0; i-- {
		b.writeBit(v>>uint(i)&0x01 != 0)
	}
	if b.readBit() {
		return ErrNack
	}
	return nil
}

func (b *I2C) readByte(ack bool) byte {
	var v byte
	for i := 0; i < 8; i++ {
		v <<= 1
		if b.readBit() {
			v |= 0x01
		}
	}
	b.writeBit(!ack)
	return v
}

// writeBit places a bit on SDA while SCL is low, and clocks it.
func (b *I2C) writeBit(v bool) {
	if v {
		b.release(b.sda)
	} else {
		b.pull(b.sda)
	}
	b.sleep(b.tclk)
	b.release(b.scl)
	b.sleep(b.tclk)
	b.pull(b.scl)
}

// readBit releases SDA and samples it while SCL is high.
func (b *I2C) readBit() bool {
	b.release(b.sda)
	b.sleep(b.tclk)
	b.release(b.scl)
	b.sleep(b.tclk)
	v := b.sda.Read()
	b.pull(b.scl)
	return bool(v)
}

func (b *I2C) release(l gpio.Line) {
	l.Input()
}

func (b *I2C) pull(l gpio.Line) {
	l.Low()
	l.Output()
}

func halfCycle(f uint32) time.Duration {
	return time.Second / time.Duration(2*uint64(f))
}
