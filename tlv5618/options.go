// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tlv5618

import (
	"runtime"
	"time"
)

// Option specifies a construction option for the Device.
type Option func(*Device)

// WithControl sets the speed and power bits, e.g. SpeedFast|PowerNormal.
func WithControl(control Control) Option {
	return func(d *Device) {
		d.control = control & (SpeedFast | PowerDown)
	}
}

// WithFrequency sets the bus clock configured by Begin.
func WithFrequency(hz uint32) Option {
	return func(d *Device) {
		d.frequency = hz
	}
}

// WithSettle sets the chip-select settling delay used by WriteData.
func WithSettle(settle time.Duration) Option {
	return func(d *Device) {
		d.settle = settle
	}
}

// WithDelay replaces the delay primitive.
func WithDelay(delay func(time.Duration)) Option {
	return func(d *Device) {
		d.delay = delay
	}
}

// WithInterruptMasker sets the masker used by WriteFast.
func WithInterruptMasker(m InterruptMasker) Option {
	return func(d *Device) {
		d.irq = m
	}
}

// threadMasker is the hosted stand-in for masking interrupts.
//
// It holds the calling goroutine on its OS thread for the transfer so the
// scheduler cannot migrate it mid write.
type threadMasker struct{}

func (threadMasker) Disable() uintptr {
	runtime.LockOSThread()
	return 0
}

func (threadMasker) Restore(uintptr) {
	runtime.UnlockOSThread()
}
