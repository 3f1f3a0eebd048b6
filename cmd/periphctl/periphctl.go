// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

// periphctl drives a TLV5618 DAC and a WM8731 codec connected to the GPIO
// header of a Raspberry Pi.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

var version = "undefined"

var rootCmd = &cobra.Command{
	Use:   "periphctl",
	Short: "periphctl is a utility to control a TLV5618 DAC and WM8731 codec",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootOpts = struct {
	ConfigFile string
	Backend    string
	Chip       string
	Verbose    bool
}{}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootOpts.ConfigFile, "config-file", "c", "periphctl.json", "configuration file")
	pf.StringVar(&rootOpts.Backend, "backend", "mem", "GPIO access, mem or cdev")
	pf.StringVar(&rootOpts.Chip, "chip", "gpiochip0", "GPIO chip used by the cdev backend")
	pf.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "trace bus writes")
}

func main() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		logErr(cmd, err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "periphctl %s: %s\n", cmd.Name(), err)
}

func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"backend":          "mem",
		"chip":             "gpiochip0",
		"dac.sclk":         gpio.SPI0SCLK,
		"dac.mosi":         gpio.SPI0MOSI,
		"dac.cs":           gpio.SPI0CE0,
		"dac.speed":        "slow",
		"dac.power":        "normal",
		"dac.frequency":    1000000,
		"codec.scl":        gpio.I2C1SCL,
		"codec.sda":        gpio.I2C1SDA,
		"codec.bus":        "/dev/i2c-1",
		"codec.address":    0x1a,
		"codec.rate":       48000,
		"codec.wordlength": 16,
		"codec.format":     "i2s",
	}
}

// loadConfig layers the flags changed on the command line over the
// environment, the config file and the defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	flags := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[strings.Replace(f.Name, "-", ".", -1)] = f.Value.String()
	})
	def := dict.New(dict.WithMap(defaultConfig()))
	cfg := config.New(
		dict.New(dict.WithMap(flags)),
		env.New(env.WithEnvPrefix("PERIPHCTL_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", rootOpts.ConfigFile, json.NewDecoder()))
	return cfg.GetConfig("", config.WithMust)
}

var pinNames = map[string]int{
	"J8P3":  gpio.J8p3,
	"J8P03": gpio.J8p3,
	"J8P5":  gpio.J8p5,
	"J8P05": gpio.J8p5,
	"J8P7":  gpio.J8p7,
	"J8P07": gpio.J8p7,
	"J8P8":  gpio.J8p8,
	"J8P08": gpio.J8p8,
	"J8P10": gpio.J8p10,
	"J8P11": gpio.J8p11,
	"J8P12": gpio.J8p12,
	"J8P13": gpio.J8p13,
	"J8P15": gpio.J8p15,
	"J8P16": gpio.J8p16,
	"J8P18": gpio.J8p18,
	"J8P19": gpio.J8p19,
	"J8P21": gpio.J8p21,
	"J8P22": gpio.J8p22,
	"J8P23": gpio.J8p23,
	"J8P24": gpio.J8p24,
	"J8P26": gpio.J8p26,
	"J8P27": gpio.J8p27,
	"J8P28": gpio.J8p28,
	"J8P29": gpio.J8p29,
	"J8P31": gpio.J8p31,
	"J8P32": gpio.J8p32,
	"J8P33": gpio.J8p33,
	"J8P35": gpio.J8p35,
	"J8P36": gpio.J8p36,
	"J8P37": gpio.J8p37,
	"J8P38": gpio.J8p38,
	"J8P40": gpio.J8p40,
}

// parseOffset converts a pin name (J8pXX) or GPIO number to a GPIO number.
func parseOffset(arg string) (int, error) {
	if o, ok := pinNames[strings.ToUpper(arg)]; ok {
		return o, nil
	}
	o, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse pin '%s'", arg)
	}
	if o >= gpio.MaxGPIOPin {
		return 0, fmt.Errorf("unknown pin '%d'", o)
	}
	return int(o), nil
}

// parseUint parses a decimal, 0x hex or 0b binary value that fits in size
// bits.
func parseUint(arg string, size int) (uint64, error) {
	v, err := strconv.ParseUint(arg, 0, size)
	if err != nil {
		return 0, fmt.Errorf("can't parse value '%s'", arg)
	}
	return v, nil
}
