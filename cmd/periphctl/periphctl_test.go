// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

package main

import (
	"testing"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/hughpyle/machinesalem-arduino-libs/tlv5618"
	"github.com/hughpyle/machinesalem-arduino-libs/wm8731"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	patterns := []struct {
		arg    string
		offset int
		err    bool
	}{
		{"J8p7", gpio.GPIO4, false},
		{"j8p07", gpio.GPIO4, false},
		{"J8P13", gpio.GPIO27, false},
		{"23", 23, false},
		{"27", 27, false},
		{"28", 0, true},
		{"J8P1", 0, true},
		{"-1", 0, true},
	}
	for _, p := range patterns {
		o, err := parseOffset(p.arg)
		assert.Equal(t, p.err, err != nil, p.arg)
		assert.Equal(t, p.offset, o, p.arg)
	}
}

func TestParseDac(t *testing.T) {
	c, err := parseDacCommand("A")
	assert.Nil(t, err)
	assert.Equal(t, tlv5618.CmdWriteAUpdateB, c)
	c, err = parseDacCommand("buffer")
	assert.Nil(t, err)
	assert.Equal(t, tlv5618.CmdWriteBuffer, c)
	_, err = parseDacCommand("c")
	assert.NotNil(t, err)

	v, err := parseDacValue("0xfff")
	assert.Nil(t, err)
	assert.Equal(t, uint16(tlv5618.MaxValue), v)
	v, err = parseDacValue("2048")
	assert.Nil(t, err)
	assert.Equal(t, uint16(2048), v)
	_, err = parseDacValue("4096")
	assert.NotNil(t, err)
	_, err = parseDacValue("high")
	assert.NotNil(t, err)
}

func TestParseRegValue(t *testing.T) {
	patterns := []struct {
		arg   string
		reg   wm8731.Register
		value uint16
		err   bool
	}{
		{"4=0x12", wm8731.RegAnalogPath, 0x12, false},
		{"Interface=10", wm8731.RegInterface, 10, false},
		{"active=1", wm8731.RegActive, 1, false},
		{"0x0f=0", wm8731.RegReset, 0, false},
		{"sampling=0b1100", wm8731.RegSampling, 0x0c, false},
		{"digital=0x1ff", wm8731.RegDigitalPath, 0x1ff, false},
		{"digital=0x200", 0, 0, true},
		{"16=0", 0, 0, true},
		{"bogus=0", 0, 0, true},
		{"4", 0, 0, true},
		{"4=1=2", 0, 0, true},
	}
	for _, p := range patterns {
		r, v, err := parseRegValue(p.arg)
		assert.Equal(t, p.err, err != nil, p.arg)
		assert.Equal(t, p.reg, r, p.arg)
		assert.Equal(t, p.value, v, p.arg)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := parseFormat("I2S")
	assert.Nil(t, err)
	assert.Equal(t, wm8731.FormatI2S, f)
	f, err = parseFormat("left")
	assert.Nil(t, err)
	assert.Equal(t, wm8731.FormatLeftJustified, f)
	_, err = parseFormat("pcm")
	assert.NotNil(t, err)
}

func TestOpenLinesUnknown(t *testing.T) {
	ll, err := openLines("sysfs", "gpiochip0")
	assert.NotNil(t, err)
	assert.Nil(t, ll)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PERIPHCTL_DAC_POWER", "down")
	require.Nil(t, dacWriteCmd.ParseFlags([]string{"--dac-speed", "fast"}))
	cfg := loadConfig(dacWriteCmd)
	// flag over env over default
	assert.Equal(t, "fast", cfg.MustGet("dac.speed").String())
	assert.Equal(t, "down", cfg.MustGet("dac.power").String())
	assert.Equal(t, gpio.SPI0SCLK, cfg.MustGet("dac.sclk").Int())
	assert.Equal(t, "mem", cfg.MustGet("backend").String())
	control, err := dacControl(cfg)
	assert.Nil(t, err)
	assert.Equal(t, tlv5618.SpeedFast|tlv5618.PowerDown, control)
}

func TestChipName(t *testing.T) {
	assert.Equal(t, "bcm2835", chipName(gpio.BCM2835))
	assert.Equal(t, "bcm2711", chipName(gpio.BCM2711))
	assert.Equal(t, "unknown", chipName(gpio.Chipset(-1)))
}
