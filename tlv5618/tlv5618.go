// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tlv5618 provides a driver for the TLV5618 2-channel 12-bit SPI DAC
// by TI.
//
// The DAC uses an external voltage reference, and full scale is 2*Vref.
// Values are 12 bit, 0 to 4095.
//
// Datasheet: https://www.ti.com/lit/gpn/tlv5618a
package tlv5618

import (
	"sync"
	"time"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/hughpyle/machinesalem-arduino-libs/spi"
	"tinygo.org/x/drivers"
)

// Command selects the latches updated by a write.
type Command uint8

// Commands, occupying bits 15 (R1) and 12 (R0) of the input word.
const (
	// CmdWriteBAndBuffer writes the value to channel B and to the buffer.
	CmdWriteBAndBuffer Command = 0x00
	// CmdWriteBuffer writes the value to the buffer only.
	CmdWriteBuffer Command = 0x10
	// CmdWriteAUpdateB writes the value to channel A and updates channel B
	// from the buffer.
	CmdWriteAUpdateB Command = 0x80
)

// Control holds the speed and power bits ORed into every write.
type Control uint8

// Control bits, occupying bits 14 (SPD) and 13 (PWR) of the input word.
const (
	// SpeedSlow selects the slow (10µs) settling mode.
	SpeedSlow Control = 0x00
	// SpeedFast selects the fast (3µs) settling mode.
	SpeedFast Control = 0x40
	// PowerNormal keeps the outputs powered.
	PowerNormal Control = 0x00
	// PowerDown powers the DAC down.
	PowerDown Control = 0x20

	// DefaultControl is used unless WithControl is provided.
	DefaultControl = SpeedSlow | PowerNormal
)

const (
	// MaxValue is the full scale value.
	MaxValue = 0x0fff

	// DefaultFrequency is the bus clock used by Begin.
	DefaultFrequency = 8000000

	// DefaultSettle is the delay after asserting, and before deasserting, the
	// chip-select.
	DefaultSettle = time.Microsecond

	// SelectSettle is the delay following a change of chip-select by Select.
	SelectSettle = 10 * time.Microsecond
)

// Bus is the SPI bus the DAC is connected to.
type Bus interface {
	drivers.SPI
	Configure(spi.Config) error
}

// InterruptMasker masks interrupts around time critical transfers.
//
// The shape follows the TinyGo runtime/interrupt package, so on a
// microcontroller it is satisfied by a thin wrapper around interrupt.Disable
// and interrupt.Restore.
type InterruptMasker interface {
	Disable() uintptr
	Restore(state uintptr)
}

// Device wraps a TLV5618 connected to an SPI bus and a chip-select line.
type Device struct {
	mu        sync.Mutex
	bus       Bus
	cs        gpio.Line
	control   Control
	frequency uint32
	settle    time.Duration
	delay     func(time.Duration)
	irq       InterruptMasker
	buf       [2]byte
}

// New creates a TLV5618 driver.
//
// The device is not touched until Begin is called.
func New(bus Bus, cs gpio.Line, options ...Option) *Device {
	d := &Device{
		bus:       bus,
		cs:        cs,
		control:   DefaultControl,
		frequency: DefaultFrequency,
		settle:    DefaultSettle,
		delay:     time.Sleep,
		irq:       threadMasker{},
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Control returns the control bits sent with every write.
func (d *Device) Control() Control {
	return d.control
}

// Begin configures the bus for the DAC - MSB first, mode 3 - and sets the
// chip-select as an output with the DAC deselected.
func (d *Device) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.bus.Configure(spi.Config{
		Frequency: d.frequency,
		Mode:      spi.Mode3,
	})
	if err != nil {
		return err
	}
	// chip-select is active low
	d.cs.High()
	d.cs.Output()
	return nil
}

// WriteData writes a value using one of the Cmd commands.
//
// The value is truncated to 12 bits. The two bytes are framed by the
// chip-select, with a settling delay after selecting and before deselecting.
func (d *Device) WriteData(cmd Command, value uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeData(cmd, value)
}

func (d *Device) writeData(cmd Command, value uint16) error {
	d.buf = Encode(cmd, d.control, value)
	d.cs.Low()
	d.delay(d.settle)
	err := d.transfer()
	d.delay(d.settle)
	d.cs.High()
	return err
}

// WriteFast writes a value using one of the Cmd commands, without the settling
// delays and with interrupts masked for the duration of the transfer.
//
// This trades interrupt latency and timing margin for a shorter write.
func (d *Device) WriteFast(cmd Command, value uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = Encode(cmd, d.control, value)
	d.cs.Low()
	state := d.irq.Disable()
	err := d.bus.Tx(d.buf[:], nil)
	d.irq.Restore(state)
	d.cs.High()
	return err
}

// Write sets both channels.
//
// B is loaded into the buffer first, and then A is written while B is
// updated from the buffer, so both outputs change together.
// No other write can restage the buffer between the two.
func (d *Device) Write(valueA, valueB uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeData(CmdWriteBuffer, valueB); err != nil {
		return err
	}
	return d.writeData(CmdWriteAUpdateB, valueA)
}

// Select asserts (true) or deasserts (false) the chip-select, then waits for
// the device to settle.
//
// Used with WriteDataNoSelect to manage the framing directly.
func (d *Device) Select(b bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b {
		d.cs.Low()
	} else {
		d.cs.High()
	}
	d.delay(SelectSettle)
}

// WriteDataNoSelect writes a value using one of the Cmd commands without
// touching the chip-select.
func (d *Device) WriteDataNoSelect(cmd Command, value uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = Encode(cmd, d.control, value)
	return d.transfer()
}

func (d *Device) transfer() error {
	for _, b := range d.buf {
		if _, err := d.bus.Transfer(b); err != nil {
			return err
		}
	}
	return nil
}

// Encode returns the two bytes sent to the DAC for a write.
func Encode(cmd Command, control Control, value uint16) [2]byte {
	return [2]byte{
		byte(value>>8&0x0f) | byte(cmd) | byte(control),
		byte(value),
	}
}

// Decode splits the two bytes of a write into its fields.
func Decode(b [2]byte) (Command, Control, uint16) {
	cmd := Command(b[0] & byte(CmdWriteBuffer|CmdWriteAUpdateB))
	control := Control(b[0] & byte(SpeedFast|PowerDown))
	value := uint16(b[0]&0x0f)<<8 | uint16(b[1])
	return cmd, control, value
}
