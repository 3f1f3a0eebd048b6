// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package spi

import "errors"

var (
	// ErrInvalidMode indicates a mode outside Mode0..Mode3.
	ErrInvalidMode = errors.New("invalid SPI mode")

	// ErrLengthMismatch indicates Tx was passed read and write buffers of
	// differing lengths.
	ErrLengthMismatch = errors.New("read and write buffers differ in length")
)
