// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The periphctl Authors.

//go:build linux
// +build linux

package main

import (
	"fmt"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/hughpyle/machinesalem-arduino-libs/cdev"
)

// lines provides GPIO lines from the configured backend.
type lines interface {
	Line(offset int) (gpio.Line, error)
	// Err returns the first error raised by a line since the last call.
	Err() error
	Close() error
}

func openLines(backend, chip string) (lines, error) {
	switch backend {
	case "mem":
		if err := gpio.Open(); err != nil {
			return nil, err
		}
		return memLines{}, nil
	case "cdev":
		c, err := cdev.Open(chip)
		if err != nil {
			return nil, err
		}
		return &cdevLines{chip: c}, nil
	default:
		return nil, fmt.Errorf("unknown backend '%s'", backend)
	}
}

type memLines struct{}

func (memLines) Line(offset int) (gpio.Line, error) {
	if offset < 0 || offset >= gpio.MaxGPIOPin {
		return nil, fmt.Errorf("unknown pin '%d'", offset)
	}
	return gpio.NewPin(offset), nil
}

func (memLines) Err() error {
	return nil
}

func (memLines) Close() error {
	return gpio.Close()
}

type cdevLines struct {
	chip  *cdev.Chip
	lines []*cdev.Line
}

func (c *cdevLines) Line(offset int) (gpio.Line, error) {
	l, err := c.chip.RequestLine(offset)
	if err != nil {
		return nil, err
	}
	c.lines = append(c.lines, l)
	return l, nil
}

func (c *cdevLines) Err() error {
	for _, l := range c.lines {
		if err := l.Err(); err != nil {
			return fmt.Errorf("line %d: %w", l.Offset(), err)
		}
	}
	return nil
}

func (c *cdevLines) Close() error {
	for _, l := range c.lines {
		l.Close()
	}
	return c.chip.Close()
}
