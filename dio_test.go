// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

// Tests use J8 pin 7 (mostly) and 15 and 16 (for looped tests).
package gpio_test

import (
	"testing"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUninitialisedPanic(t *testing.T) {
	assert.Panics(t, func() { gpio.NewPin(gpio.J8p7) })
}

func TestNewPinRange(t *testing.T) {
	requirePlatform(t)
	require.Nil(t, gpio.Open())
	defer gpio.Close()
	assert.Nil(t, gpio.NewPin(-1))
	assert.Nil(t, gpio.NewPin(gpio.MaxGPIOPin))
	pin := gpio.NewPin(gpio.J8p7)
	require.NotNil(t, pin)
	assert.Equal(t, gpio.GPIO4, pin.Pin())
}

func TestMode(t *testing.T) {
	requirePlatform(t)
	require.Nil(t, gpio.Open())
	defer gpio.Close()
	pin := gpio.NewPin(gpio.J8p7)
	require.Equal(t, gpio.Input, pin.Mode())
	defer pin.Input()
	pin.Output()
	assert.Equal(t, gpio.Output, pin.Mode())
	pin.Input()
	assert.Equal(t, gpio.Input, pin.Mode())
	pin.SetMode(gpio.Output)
	assert.Equal(t, gpio.Output, pin.Mode())
}

func TestWrite(t *testing.T) {
	requirePlatform(t)
	require.Nil(t, gpio.Open())
	defer gpio.Close()
	pin := gpio.NewPin(gpio.J8p7)
	defer pin.Input()
	pin.Low()
	pin.Output()
	assert.Equal(t, gpio.Low, pin.Read())
	pin.High()
	assert.Equal(t, gpio.High, pin.Shadow())
	assert.Equal(t, gpio.High, pin.Read())
	pin.Write(gpio.Low)
	assert.Equal(t, gpio.Low, pin.Shadow())
	assert.Equal(t, gpio.Low, pin.Read())
}

// Looped tests require a jumper across Raspberry Pi J8 pins 15 and 16.
func TestOpenDrainLooped(t *testing.T) {
	requirePlatform(t)
	require.Nil(t, gpio.Open())
	defer gpio.Close()
	pinIn := gpio.NewPin(gpio.J8p15)
	pinOut := gpio.NewPin(gpio.J8p16)
	pinIn.Input()
	pinIn.PullUp()
	defer pinIn.PullNone()
	defer pinOut.Input()
	// released - pulled up through the loop
	pinOut.Low()
	pinOut.Input()
	if pinIn.Read() != gpio.High {
		t.Skip("J8p15 and J8p16 are not looped")
	}
	// driven low
	pinOut.Output()
	assert.Equal(t, gpio.Low, pinIn.Read())
	pinOut.Input()
	assert.Equal(t, gpio.High, pinIn.Read())
}
