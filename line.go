// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package gpio provides the GPIO lines used to drive peripheral buses from a
// Raspberry Pi (rev 2 and later).
//
// The lines are driven by memory mapping the BCM2835/BCM2711 GPIO block via
// /dev/gpiomem. They back the bit bashed SPI and I2C masters in the spi and i2c
// packages and the chip-select line of SPI devices.
//
// Example of use:
//
//	gpio.Open()
//	defer gpio.Close()
//
//	cs := gpio.NewPin(gpio.GPIO8)
//	cs.High()
//	cs.Output()
//
// The library uses the raw BCM2835 pin numbers, not the ports as they are mapped
// on the J8 output pins for the Raspberry Pi.
// A mapping from J8 to BCM is provided for those wanting to use the J8 numbering.
package gpio

// Line is a single signal line that can be switched between input and output
// and read or driven.
//
// Pin implements Line, as does cdev.Line.
type Line interface {
	Input()
	Output()
	High()
	Low()
	Write(Level)
	Read() Level
}

// Level represents the high (true) or low (false) level of a Line.
type Level bool

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)
