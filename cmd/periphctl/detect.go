// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

package main

import (
	"fmt"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Identify the GPIO controller driving the buses",
	Args:  cobra.NoArgs,
	RunE:  detect,
}

func detect(cmd *cobra.Command, args []string) error {
	err := gpio.Open()
	if err != nil {
		return err
	}
	defer gpio.Close()
	fmt.Println(chipName(gpio.Chip()))
	return nil
}

func chipName(c gpio.Chipset) string {
	switch c {
	case gpio.BCM2835:
		return "bcm2835"
	case gpio.BCM2711:
		return "bcm2711"
	default:
		return "unknown"
	}
}
