// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package gpio

import (
	"errors"
	"os"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Chipset identifies the GPIO controller of the Pi.
type Chipset int

const (
	// BCM2835 covers the BCM2835/6/7 family (Pi 1 to Pi 3).
	BCM2835 Chipset = iota
	// BCM2711 is the Pi 4 controller, which differs in its pull registers.
	BCM2711
)

var (
	// The memlock covers read/modify/write access to the mem block.
	// Individual reads and writes can skip the lock on the assumption that
	// concurrent register writes are atomic. e.g. Read, Write and Mode.
	memlock sync.Mutex
	mem     []uint32
	mem8    []uint8
	chipset Chipset
)

// Open and memory map GPIO memory range from /dev/gpiomem .
func Open() (err error) {
	if len(mem) != 0 {
		return ErrAlreadyOpen
	}
	file, err := os.OpenFile("/dev/gpiomem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return
	}
	defer file.Close()

	memlock.Lock()
	defer memlock.Unlock()

	mem8, err = unix.Mmap(
		int(file.Fd()),
		0,
		memLength,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return
	}
	mem = unsafe.Slice((*uint32)(unsafe.Pointer(&mem8[0])), len(mem8)/4)
	chipset = detectChipset()
	return nil
}

// Close unmaps GPIO memory.
func Close() error {
	memlock.Lock()
	defer memlock.Unlock()
	if len(mem) == 0 {
		return nil
	}
	mem = nil
	err := unix.Munmap(mem8)
	mem8 = nil
	return err
}

// Chip returns the GPIO controller found by Open.
func Chip() Chipset {
	return chipset
}

func detectChipset() Chipset {
	b, err := os.ReadFile("/proc/device-tree/compatible")
	if err != nil {
		return BCM2835
	}
	if strings.Contains(string(b), "bcm2711") {
		return BCM2711
	}
	return BCM2835
}

var (
	// ErrAlreadyOpen indicates the mem is already open.
	ErrAlreadyOpen = errors.New("already open")
)
