// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package i2c

import "errors"

var (
	// ErrNack indicates the slave did not acknowledge its address or a byte.
	ErrNack = errors.New("no acknowledge from slave")

	// ErrBusBusy indicates a line was held low when the bus should be idle.
	ErrBusBusy = errors.New("bus held low")

	// ErrClosed indicates the adapter has been closed.
	ErrClosed = errors.New("closed")
)
