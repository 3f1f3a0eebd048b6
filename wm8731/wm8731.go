// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package wm8731 provides a control interface driver for the Wolfson WM8731
// audio codec.
//
// The codec control registers are write only, so the driver keeps a shadow of
// the values last written to registers 0 to 9, and read-modify-write
// operations work against that shadow.
//
// The audio data stream itself is carried over I2S, and is outside the scope
// of this package.
//
// Datasheet: https://www.cirrus.com/products/wm8731/
package wm8731

import (
	"fmt"
	"io"
	"sync"
	"time"

	"tinygo.org/x/drivers"
)

// DefaultStartupDelay is the wait following the first bus initialisation.
const DefaultStartupDelay = 200 * time.Millisecond

// Config is the audio configuration applied by Begin.
type Config struct {
	// SampleRate in Hz, 8000, 32000, 48000 or 96000.
	SampleRate uint32
	// WordLength in bits, 16, 20, 24 or 32.
	WordLength uint8
	Format     Format
	// Master places the codec in master mode, so it generates the bit and
	// LR clocks.
	Master bool
}

// DefaultConfig is 48kHz 16 bit I2S, with the codec as slave.
var DefaultConfig = Config{
	SampleRate: 48000,
	WordLength: 16,
	Format:     FormatI2S,
}

// Codec wraps a WM8731 on an I2C bus.
type Codec struct {
	mu      sync.Mutex
	bus     drivers.I2C
	addr    Address
	shadow  [NumRegisters]uint16
	started bool
	busInit func() error
	startup time.Duration
	delay   func(time.Duration)
	trace   io.Writer
	buf     [2]byte
}

// New creates a WM8731 driver.
//
// The codec is not touched until Begin is called.
func New(bus drivers.I2C, options ...Option) *Codec {
	c := &Codec{
		bus:     bus,
		addr:    AddressCSBLow,
		startup: DefaultStartupDelay,
		delay:   time.Sleep,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Address returns the address of the codec on the bus.
func (c *Codec) Address() Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// Begin resets the codec and applies the configuration.
//
// The first call initialises the bus, if an initialiser was provided, and
// waits for the bus and codec to settle. Subsequent calls reconfigure the
// codec without repeating that.
func (c *Codec) Begin(addr Address, cfg Config) error {
	iface := InterfaceFormat(cfg.Format) | WordLengthField(WordLengthCode(cfg.WordLength))
	if cfg.Master {
		iface |= InterfaceMaster
	}
	return c.begin(addr, SampleRateField(SampleRateCode(cfg.SampleRate)), iface)
}

// BeginFlags is Begin with the sampling and interface registers provided as
// raw register values.
func (c *Codec) BeginFlags(addr Address, sampling, iface uint8) error {
	return c.begin(addr, uint16(sampling), uint16(iface))
}

func (c *Codec) begin(addr Address, sampling, iface uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = addr
	if !c.started {
		if c.busInit != nil {
			if err := c.busInit(); err != nil {
				return err
			}
		}
		c.started = true
		c.delay(c.startup)
	}
	seq := []struct {
		reg   Register
		value uint16
	}{
		{RegReset, 0},
		{RegPowerDown, 0},
		{RegInterface, iface},
		{RegLeftLineIn, 0},
		{RegRightLineIn, 0},
		{RegLeftHeadphoneOut, 0},
		{RegRightHeadphoneOut, 0},
		{RegAnalogPath, uint16(AnalogDACSel)},
		{RegDigitalPath, 0},
		{RegSampling, sampling},
	}
	for _, w := range seq {
		if err := c.set(w.reg, w.value); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the codec to its power on defaults.
//
// The shadow is not cleared.
func (c *Codec) Reset() error {
	return c.Set(RegReset, 0)
}

// SetActive activates the digital audio interface.
func (c *Codec) SetActive() error {
	return c.Set(RegActive, ActiveControl)
}

// SetInactive deactivates the digital audio interface.
func (c *Codec) SetInactive() error {
	return c.Set(RegActive, 0)
}

// SetInputVolume sets the volume of both line inputs, 0 to 31.
//
// Larger values are truncated to 5 bits. The mute and join bits are unchanged.
func (c *Codec) SetInputVolume(v uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.modify(RegLeftLineIn, LineInVolume(v), LineInVolumeMask); err != nil {
		return err
	}
	return c.modify(RegRightLineIn, LineInVolume(v), LineInVolumeMask)
}

// SetOutputVolume sets the volume of both headphone outputs, 0 to 63.
//
// Larger values are truncated to 6 bits. The zero cross and join bits are
// unchanged.
func (c *Codec) SetOutputVolume(v uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.modify(RegLeftHeadphoneOut, HeadphoneVolume(v), HeadphoneVolumeMask); err != nil {
		return err
	}
	return c.modify(RegRightHeadphoneOut, HeadphoneVolume(v), HeadphoneVolumeMask)
}

// SetInputMute mutes or unmutes both line inputs.
func (c *Codec) SetInputMute(mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, clear := bits(mute, LineInMute)
	if err := c.modify(RegLeftLineIn, set, clear); err != nil {
		return err
	}
	return c.modify(RegRightLineIn, set, clear)
}

// SetDACMute enables or disables the DAC soft mute.
func (c *Codec) SetDACMute(mute bool) error {
	set, clear := bits(mute, DigitalDACMU)
	return c.Update(RegDigitalPath, set, clear)
}

// SetDeemphasis selects the DAC de-emphasis filter.
func (c *Codec) SetDeemphasis(d Deemphasis) error {
	return c.Update(RegDigitalPath, DeemphasisField(d), deemphMask)
}

// SetAnalogPath replaces the analogue audio path routing, including the
// sidetone attenuation.
func (c *Codec) SetAnalogPath(p AnalogPath) error {
	return c.Set(RegAnalogPath, uint16(p))
}

// Update sets and clears bits in a shadowed register and writes the result to
// the codec.
//
// Bits in both set and clear end up set.
func (c *Codec) Update(reg Register, set, clear uint16) error {
	if reg >= NumRegisters {
		return ErrInvalidRegister
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modify(reg, set, clear)
}

// Set writes a value to a register.
//
// Registers 0 to 9 are recorded in the shadow before the write. Other
// registers, such as RegReset, are written but not recorded.
// The shadow is updated even if the write fails.
// Only the low 9 bits of the value are transmitted.
func (c *Codec) Set(reg Register, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set(reg, value)
}

// Get returns the last value written to a register, as recorded in the
// shadow.
//
// Registers outside 0 to 9 are not shadowed, and return 0.
func (c *Codec) Get(reg Register) uint16 {
	if reg >= NumRegisters {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shadow[reg]
}

// Shadow returns a copy of the shadow of registers 0 to 9.
func (c *Codec) Shadow() [NumRegisters]uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shadow
}

func (c *Codec) modify(reg Register, set, clear uint16) error {
	return c.set(reg, c.shadow[reg]&^clear|set)
}

func (c *Codec) set(reg Register, value uint16) error {
	if reg < NumRegisters {
		c.shadow[reg] = value
	}
	if c.trace != nil {
		fmt.Fprintf(c.trace, "wm8731 register 0x%02x = 0x%03x\n", uint8(reg), value&ValueMask)
	}
	c.buf = Encode(reg, value)
	return c.bus.Tx(uint16(c.addr), c.buf[:], nil)
}

func bits(on bool, mask uint16) (set, clear uint16) {
	if on {
		return mask, 0
	}
	return 0, mask
}
