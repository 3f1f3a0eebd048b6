// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package i2c

import (
	"errors"
	"io"
	"sync"

	"golang.org/x/sys/unix"
	"tinygo.org/x/drivers"
)

// ioctl to select the slave address of subsequent reads and writes.
const ioctlSlave = 0x0703

const noAddr = 0xffff

// Dev is an I2C master provided by a Linux I2C adapter, e.g. /dev/i2c-1 on a
// Raspberry Pi.
type Dev struct {
	mu   sync.Mutex
	fd   int
	addr uint16
}

var _ drivers.I2C = (*Dev)(nil)

// Open opens the adapter at path.
func Open(path string) (*Dev, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &ErrOpen{Path: path, Err: err}
	}
	return &Dev{fd: fd, addr: noAddr}, nil
}

// Close releases the adapter.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// Tx performs a write of w, followed by a read into r, with the slave at addr.
//
// The write and read are separate messages, each framed by its own start and
// stop. A slave that fails to acknowledge is reported as ErrNack.
func (d *Dev) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return ErrClosed
	}
	if addr != d.addr {
		if err := unix.IoctlSetInt(d.fd, ioctlSlave, int(addr)); err != nil {
			d.addr = noAddr
			return err
		}
		d.addr = addr
	}
	if len(w) > 0 {
		n, err := unix.Write(d.fd, w)
		if err != nil {
			return mapErr(err)
		}
		if n != len(w) {
			return io.ErrShortWrite
		}
	}
	if len(r) > 0 {
		n, err := unix.Read(d.fd, r)
		if err != nil {
			return mapErr(err)
		}
		if n != len(r) {
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, unix.EREMOTEIO) || errors.Is(err, unix.ENXIO) {
		return ErrNack
	}
	return err
}

// ErrOpen indicates the adapter could not be opened.
type ErrOpen struct {
	Path string
	Err  error
}

func (e *ErrOpen) Error() string {
	return "can't open " + e.Path + ": " + e.Err.Error()
}

func (e *ErrOpen) Unwrap() error {
	return e.Err
}
