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
	"time"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/hughpyle/machinesalem-arduino-libs/spi"
	"github.com/hughpyle/machinesalem-arduino-libs/tlv5618"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
)

// This example ramps the two outputs of a TLV5618 in opposite directions, so
// A rises while B falls. The DAC is connected to the RPI by three data lines -
// SCLK, DIN and CS. The default pin assignments are the SPI0 pins, and are
// defined in loadConfig, but can be altered via configuration (env, flag or
// config file).
// All three pins are outputs so do not run this example on a board where
// those pins serve other purposes.
func main() {
	cfg := loadConfig()
	err := gpio.Open()
	if err != nil {
		panic(err)
	}
	defer gpio.Close()
	bus := spi.New(
		gpio.NewPin(cfg.MustGet("sclk").Int()),
		gpio.NewPin(cfg.MustGet("mosi").Int()),
		nil)
	defer bus.Close()
	cs := gpio.NewPin(cfg.MustGet("cs").Int())
	defer cs.Input()
	dac := tlv5618.New(bus, cs,
		tlv5618.WithFrequency(uint32(cfg.MustGet("frequency").Uint())))
	if err = dac.Begin(); err != nil {
		panic(err)
	}
	step := cfg.MustGet("step").Int()
	period := cfg.MustGet("period").Duration()
	for v := 0; v <= tlv5618.MaxValue; v += step {
		a := uint16(v)
		b := uint16(tlv5618.MaxValue - v)
		if err = dac.Write(a, b); err != nil {
			panic(err)
		}
		fmt.Printf("a=0x%03x b=0x%03x\n", a, b)
		time.Sleep(period)
	}
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"sclk":      gpio.SPI0SCLK,
		"mosi":      gpio.SPI0MOSI,
		"cs":        gpio.SPI0CE0,
		"frequency": spi.DefaultFrequency,
		"step":      0x100,
		"period":    "100ms",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		pflag.New(pflag.WithFlags(
			[]pflag.Flag{{Short: 'c', Name: "config-file"}})),
		env.New(env.WithEnvPrefix("TLV5618_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "tlv5618.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}
