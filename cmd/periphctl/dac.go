// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strings"

	"github.com/hughpyle/machinesalem-arduino-libs/spi"
	"github.com/hughpyle/machinesalem-arduino-libs/tlv5618"
	"github.com/spf13/cobra"
	"github.com/warthog618/config"
)

func init() {
	pf := dacCmd.PersistentFlags()
	pf.String("dac-speed", "slow", "settling mode, slow or fast")
	pf.String("dac-power", "normal", "power mode, normal or down")
	pf.Uint32("dac-frequency", spi.DefaultFrequency, "SPI clock frequency in Hz")
	dacRawCmd.Flags().BoolVarP(&dacRawOpts.Fast, "fast", "f", false, "write without settling delays")
	dacRawCmd.SetHelpTemplate(dacRawCmd.HelpTemplate() + extendedRawHelp)
	dacCmd.AddCommand(dacWriteCmd)
	dacCmd.AddCommand(dacRawCmd)
	rootCmd.AddCommand(dacCmd)
}

var (
	dacCmd = &cobra.Command{
		Use:   "dac",
		Short: "Write to a TLV5618 DAC",
	}
	dacWriteCmd = &cobra.Command{
		Use:     "write <a> <b>",
		Short:   "Set both DAC outputs",
		Args:    cobra.ExactArgs(2),
		RunE:    dacWrite,
		Example: "  periphctl dac write 0x800 4095",
	}
	dacRawCmd = &cobra.Command{
		Use:     "raw <cmd> <value>",
		Short:   "Write a value to the DAC with an explicit command",
		Args:    cobra.ExactArgs(2),
		RunE:    dacRaw,
		Example: "  periphctl dac raw buffer 0x123",
	}
	dacRawOpts = struct {
		Fast bool
	}{}
)

var extendedRawHelp = `
Commands:
  a       write channel A and update channel B from the buffer
  b       write channel B and the buffer
  buffer  write the buffer only

Values:
  Values are 12 bit, 0 to 4095, and may be decimal or 0x hex.
`

func dacWrite(cmd *cobra.Command, args []string) error {
	a, err := parseDacValue(args[0])
	if err != nil {
		return err
	}
	b, err := parseDacValue(args[1])
	if err != nil {
		return err
	}
	return withDAC(cmd, func(d *tlv5618.Device) error {
		return d.Write(a, b)
	})
}

func dacRaw(cmd *cobra.Command, args []string) error {
	c, err := parseDacCommand(args[0])
	if err != nil {
		return err
	}
	v, err := parseDacValue(args[1])
	if err != nil {
		return err
	}
	return withDAC(cmd, func(d *tlv5618.Device) error {
		if dacRawOpts.Fast {
			return d.WriteFast(c, v)
		}
		return d.WriteData(c, v)
	})
}

// withDAC sets up the DAC from the configuration and calls fn with it.
func withDAC(cmd *cobra.Command, fn func(d *tlv5618.Device) error) error {
	cfg := loadConfig(cmd)
	control, err := dacControl(cfg)
	if err != nil {
		return err
	}
	ll, err := openLines(cfg.MustGet("backend").String(), cfg.MustGet("chip").String())
	if err != nil {
		return err
	}
	defer ll.Close()
	sclk, err := ll.Line(cfg.MustGet("dac.sclk").Int())
	if err != nil {
		return err
	}
	mosi, err := ll.Line(cfg.MustGet("dac.mosi").Int())
	if err != nil {
		return err
	}
	cs, err := ll.Line(cfg.MustGet("dac.cs").Int())
	if err != nil {
		return err
	}
	bus := spi.New(sclk, mosi, nil)
	defer bus.Close()
	d := tlv5618.New(bus, cs,
		tlv5618.WithControl(control),
		tlv5618.WithFrequency(uint32(cfg.MustGet("dac.frequency").Uint())))
	if err = d.Begin(); err != nil {
		return err
	}
	err = fn(d)
	// release the chip-select
	cs.Input()
	if err != nil {
		return err
	}
	return ll.Err()
}

func dacControl(cfg *config.Config) (tlv5618.Control, error) {
	var control tlv5618.Control
	switch speed := strings.ToLower(cfg.MustGet("dac.speed").String()); speed {
	case "slow":
		control |= tlv5618.SpeedSlow
	case "fast":
		control |= tlv5618.SpeedFast
	default:
		return 0, fmt.Errorf("unknown speed '%s'", speed)
	}
	switch power := strings.ToLower(cfg.MustGet("dac.power").String()); power {
	case "normal":
		control |= tlv5618.PowerNormal
	case "down":
		control |= tlv5618.PowerDown
	default:
		return 0, fmt.Errorf("unknown power mode '%s'", power)
	}
	return control, nil
}

var dacCommands = map[string]tlv5618.Command{
	"a":      tlv5618.CmdWriteAUpdateB,
	"b":      tlv5618.CmdWriteBAndBuffer,
	"buffer": tlv5618.CmdWriteBuffer,
	"buf":    tlv5618.CmdWriteBuffer,
}

func parseDacCommand(arg string) (tlv5618.Command, error) {
	if c, ok := dacCommands[strings.ToLower(arg)]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown command '%s'", arg)
}

func parseDacValue(arg string) (uint16, error) {
	v, err := parseUint(arg, 16)
	if err != nil {
		return 0, err
	}
	if v > tlv5618.MaxValue {
		return 0, fmt.Errorf("value '%s' out of range", arg)
	}
	return uint16(v), nil
}
