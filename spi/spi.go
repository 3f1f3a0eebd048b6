// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package spi provides a bit bashed SPI master driven over GPIO lines.
//
// It is not related to the SPI device drivers provided by Linux. Chip-select is
// left to the device driver, so a single SPI can be shared by several devices
// each holding its own select line.
package spi

import (
	"sync"
	"time"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"tinygo.org/x/drivers"
)

// SPI modes, as CPOL<<1 | CPHA.
const (
	Mode0 uint8 = iota
	Mode1
	Mode2
	Mode3
)

// DefaultFrequency is the clock used until the bus is configured.
const DefaultFrequency = 1000000

// Config holds the transfer parameters of the bus.
type Config struct {
	// Frequency is the full cycle clock rate in Hz.
	// Zero selects DefaultFrequency.
	Frequency uint32
	// LSBFirst shifts the least significant bit out first.
	LSBFirst bool
	// Mode is the clock polarity and phase.
	Mode uint8
}

// SPI represents an SPI bus using 2 or 3 GPIO lines.
//
// Miso may be nil for write only devices, in which case transfers read back
// zero.
type SPI struct {
	mu sync.Mutex
	// time between clock edges (i.e. half the cycle time)
	tclk     time.Duration
	cpol     gpio.Level
	cpha     bool
	lsbFirst bool
	sclk     gpio.Line
	mosi     gpio.Line
	miso     gpio.Line
	sleep    func(time.Duration)
}

var _ drivers.SPI = (*SPI)(nil)

// New creates a SPI.
//
// The clock is held at its idle level and the data out line driven low until
// the first transfer.
func New(sclk, mosi, miso gpio.Line, options ...Option) *SPI {
	s := &SPI{
		tclk:  halfCycle(DefaultFrequency),
		sclk:  sclk,
		mosi:  mosi,
		miso:  miso,
		sleep: time.Sleep,
	}
	for _, option := range options {
		option(s)
	}
	s.idle()
	return s
}

// Option specifies a construction option for the SPI.
type Option func(*SPI)

// WithSleep replaces the delay used between clock edges.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *SPI) {
		s.sleep = sleep
	}
}

// Configure sets the bit order, mode and clock rate of the bus.
func (s *SPI) Configure(cfg Config) error {
	if cfg.Mode > Mode3 {
		return ErrInvalidMode
	}
	f := cfg.Frequency
	if f == 0 {
		f = DefaultFrequency
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tclk = halfCycle(f)
	s.cpol = cfg.Mode&0x02 != 0
	s.cpha = cfg.Mode&0x01 != 0
	s.lsbFirst = cfg.LSBFirst
	s.idle()
	return nil
}

// Close disables the output lines used to drive the bus.
func (s *SPI) Close() {
	s.mu.Lock()
	s.sclk.Input()
	s.mosi.Input()
	s.mu.Unlock()
}

// Transfer writes a byte to the bus and returns the byte simultaneously read.
func (s *SPI) Transfer(b byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer(b), nil
}

// Tx writes w and reads into r, one byte in each direction per clocked byte.
//
// Either may be nil. If both are provided they must be the same length.
func (s *SPI) Tx(w, r []byte) error {
	n := len(w)
	if w == nil {
		n = len(r)
	} else if r != nil && len(r) != len(w) {
		return ErrLengthMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		var out byte
		if w != nil {
			out = w[i]
		}
		in := s.transfer(out)
		if r != nil {
			r[i] = in
		}
	}
	return nil
}

func (s *SPI) transfer(b byte) byte {
	var in byte
	for i := 0; i < 8; i++ {
		shift := uint(7 - i)
		if s.lsbFirst {
			shift = uint(i)
		}
		if s.clockBit(b>>shift&0x01 != 0) {
			in |= 1 << shift
		}
	}
	return in
}

// clockBit clocks one bit out on Mosi and one in on Miso.
//
// Starts and ends with the clock at its idle level.
func (s *SPI) clockBit(out bool) bool {
	if s.cpha {
		// data changes on the leading edge, sampled on the trailing edge
		s.sclk.Write(!s.cpol)
		s.mosi.Write(gpio.Level(out))
		s.sleep(s.tclk)
		s.sclk.Write(s.cpol)
		in := s.read()
		s.sleep(s.tclk)
		return in
	}
	s.mosi.Write(gpio.Level(out))
	s.sleep(s.tclk)
	s.sclk.Write(!s.cpol)
	in := s.read()
	s.sleep(s.tclk)
	s.sclk.Write(s.cpol)
	return in
}

func (s *SPI) read() bool {
	if s.miso == nil {
		return false
	}
	return bool(s.miso.Read())
}

func (s *SPI) idle() {
	s.sclk.Write(s.cpol)
	s.sclk.Output()
	s.mosi.Low()
	s.mosi.Output()
	if s.miso != nil {
		s.miso.Input()
	}
}

func halfCycle(f uint32) time.Duration {
	return time.Second / time.Duration(2*uint64(f))
}
