// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"

	"github.com/hughpyle/machinesalem-arduino-libs/i2c"
	"github.com/hughpyle/machinesalem-arduino-libs/wm8731"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
)

// This example configures a WM8731 for 48kHz 16 bit I2S playback through the
// headphone outputs, with the RPI as the interface master, then dumps the
// register shadow. The codec is accessed through the Linux I2C adapter named
// by the bus configuration, which defaults to the I2C1 pins of the J8 header.
func main() {
	cfg := loadConfig()
	bus, err := i2c.Open(cfg.MustGet("bus").String())
	if err != nil {
		panic(err)
	}
	defer bus.Close()
	codec := wm8731.New(bus, wm8731.WithTrace(os.Stdout))
	err = codec.Begin(wm8731.Address(cfg.MustGet("address").Uint()), wm8731.Config{
		SampleRate: uint32(cfg.MustGet("rate").Uint()),
		WordLength: uint8(cfg.MustGet("wordlength").Uint()),
		Format:     wm8731.FormatI2S,
	})
	if err != nil {
		panic(err)
	}
	if err = codec.SetOutputVolume(uint8(cfg.MustGet("volume").Uint())); err != nil {
		panic(err)
	}
	if err = codec.SetActive(); err != nil {
		panic(err)
	}
	for r, v := range codec.Shadow() {
		fmt.Printf("R%d=0x%03x (%09b)\n", r, v, v)
	}
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"bus":        "/dev/i2c-1",
		"address":    int(wm8731.AddressCSBLow),
		"rate":       48000,
		"wordlength": 16,
		"volume":     0x39,
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		pflag.New(pflag.WithFlags(
			[]pflag.Flag{{Short: 'c', Name: "config-file"}})),
		env.New(env.WithEnvPrefix("WM8731_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "wm8731.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}
