// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hughpyle/machinesalem-arduino-libs/i2c"
	"github.com/hughpyle/machinesalem-arduino-libs/wm8731"
	"github.com/spf13/cobra"
	"github.com/warthog618/config"
)

func init() {
	pf := codecCmd.PersistentFlags()
	pf.String("codec-bus", "/dev/i2c-1", "I2C adapter, or bitbash to drive the codec.scl and codec.sda pins")
	pf.Uint16("codec-address", uint16(wm8731.AddressCSBLow), "codec I2C address")
	pf.Uint32("codec-rate", 48000, "sample rate in Hz")
	pf.Uint8("codec-wordlength", 16, "word length in bits")
	pf.String("codec-format", "i2s", "interface format, right, left, i2s or dsp")
	codecInitCmd.Flags().Uint8VarP(&codecInitOpts.InputVolume, "input-volume", "i", 0x17, "line input volume, 0-31")
	codecInitCmd.Flags().Uint8VarP(&codecInitOpts.OutputVolume, "output-volume", "o", 0x39, "headphone volume, 0-63")
	codecInitCmd.Flags().BoolVarP(&codecInitOpts.Active, "active", "a", false, "activate the digital audio interface")
	codecInitCmd.Flags().BoolVarP(&codecInitOpts.Master, "master", "m", false, "codec is the interface master")
	codecSetCmd.SetHelpTemplate(codecSetCmd.HelpTemplate() + extendedCodecSetHelp)
	codecCmd.AddCommand(codecInitCmd)
	codecCmd.AddCommand(codecSetCmd)
	codecCmd.AddCommand(codecResetCmd)
	rootCmd.AddCommand(codecCmd)
}

var (
	codecCmd = &cobra.Command{
		Use:   "codec",
		Short: "Configure a WM8731 codec",
	}
	codecInitCmd = &cobra.Command{
		Use:     "init",
		Short:   "Reset and configure the codec",
		Args:    cobra.NoArgs,
		RunE:    codecInit,
		Example: "  periphctl codec init --codec-rate 32000 -o 50 --active",
	}
	codecInitOpts = struct {
		InputVolume  uint8
		OutputVolume uint8
		Active       bool
		Master       bool
	}{}
	codecSetCmd = &cobra.Command{
		Use:     "set <reg1>=<value1>...",
		Short:   "Write codec registers",
		Args:    cobra.MinimumNArgs(1),
		RunE:    codecSet,
		Example: "  periphctl codec set 4=0x12 interface=0x0a active=1",
	}
	codecResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the codec to its power on defaults",
		Args:  cobra.NoArgs,
		RunE:  codecReset,
	}
)

var extendedCodecSetHelp = `
Registers:
  Registers may be identified by number (0-15) or name:
  llinein, rlinein, lheadout, rheadout, analog, digital, powerdown,
  interface, sampling, active, reset.

Values:
  Values are 9 bit, 0 to 511, and may be decimal, 0x hex or 0b binary.
`

func codecInit(cmd *cobra.Command, args []string) error {
	return withCodec(cmd, func(c *wm8731.Codec, cfg *config.Config) error {
		format, err := parseFormat(cfg.MustGet("codec.format").String())
		if err != nil {
			return err
		}
		err = c.Begin(wm8731.Address(cfg.MustGet("codec.address").Uint()), wm8731.Config{
			SampleRate: uint32(cfg.MustGet("codec.rate").Uint()),
			WordLength: uint8(cfg.MustGet("codec.wordlength").Uint()),
			Format:     format,
			Master:     codecInitOpts.Master,
		})
		if err != nil {
			return err
		}
		if err = c.SetInputVolume(codecInitOpts.InputVolume); err != nil {
			return err
		}
		if err = c.SetOutputVolume(codecInitOpts.OutputVolume); err != nil {
			return err
		}
		if codecInitOpts.Active {
			return c.SetActive()
		}
		return nil
	})
}

func codecSet(cmd *cobra.Command, args []string) error {
	rr := []wm8731.Register(nil)
	vv := []uint16(nil)
	for _, arg := range args {
		r, v, err := parseRegValue(arg)
		if err != nil {
			return err
		}
		rr = append(rr, r)
		vv = append(vv, v)
	}
	return withCodec(cmd, func(c *wm8731.Codec, cfg *config.Config) error {
		for i, r := range rr {
			if err := c.Set(r, vv[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func codecReset(cmd *cobra.Command, args []string) error {
	return withCodec(cmd, func(c *wm8731.Codec, cfg *config.Config) error {
		return c.Reset()
	})
}

// withCodec sets up the codec bus from the configuration and calls fn with
// the codec.
func withCodec(cmd *cobra.Command, fn func(c *wm8731.Codec, cfg *config.Config) error) error {
	cfg := loadConfig(cmd)
	var options []wm8731.Option
	if rootOpts.Verbose {
		options = append(options, wm8731.WithTrace(os.Stderr))
	}
	path := cfg.MustGet("codec.bus").String()
	if path != "bitbash" {
		dev, err := i2c.Open(path)
		if err != nil {
			return err
		}
		defer dev.Close()
		return fn(wm8731.New(dev, options...), cfg)
	}
	ll, err := openLines(cfg.MustGet("backend").String(), cfg.MustGet("chip").String())
	if err != nil {
		return err
	}
	defer ll.Close()
	scl, err := ll.Line(cfg.MustGet("codec.scl").Int())
	if err != nil {
		return err
	}
	sda, err := ll.Line(cfg.MustGet("codec.sda").Int())
	if err != nil {
		return err
	}
	bus := i2c.New(scl, sda)
	defer bus.Close()
	options = append(options, wm8731.WithBusInit(func() error {
		return bus.Configure(i2c.Config{})
	}))
	if err = fn(wm8731.New(bus, options...), cfg); err != nil {
		return err
	}
	return ll.Err()
}

var registerNames = map[string]wm8731.Register{
	"llinein":   wm8731.RegLeftLineIn,
	"rlinein":   wm8731.RegRightLineIn,
	"lheadout":  wm8731.RegLeftHeadphoneOut,
	"rheadout":  wm8731.RegRightHeadphoneOut,
	"analog":    wm8731.RegAnalogPath,
	"digital":   wm8731.RegDigitalPath,
	"powerdown": wm8731.RegPowerDown,
	"interface": wm8731.RegInterface,
	"sampling":  wm8731.RegSampling,
	"active":    wm8731.RegActive,
	"reset":     wm8731.RegReset,
}

func parseRegister(arg string) (wm8731.Register, error) {
	if r, ok := registerNames[strings.ToLower(arg)]; ok {
		return r, nil
	}
	r, err := parseUint(arg, 8)
	if err != nil || r > 0x0f {
		return 0, fmt.Errorf("unknown register '%s'", arg)
	}
	return wm8731.Register(r), nil
}

func parseRegValue(arg string) (wm8731.Register, uint16, error) {
	aa := strings.Split(arg, "=")
	if len(aa) != 2 {
		return 0, 0, fmt.Errorf("invalid register<->value mapping: %s", arg)
	}
	r, err := parseRegister(aa[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := parseUint(aa[1], 16)
	if err != nil {
		return 0, 0, err
	}
	if v > wm8731.ValueMask {
		return 0, 0, fmt.Errorf("value '%s' out of range", aa[1])
	}
	return r, uint16(v), nil
}

var formatNames = map[string]wm8731.Format{
	"right": wm8731.FormatRightJustified,
	"left":  wm8731.FormatLeftJustified,
	"i2s":   wm8731.FormatI2S,
	"dsp":   wm8731.FormatDSP,
}

func parseFormat(arg string) (wm8731.Format, error) {
	if f, ok := formatNames[strings.ToLower(arg)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown format '%s'", arg)
}
