// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package i2c_test

import (
	"testing"
	"time"

	gpio "github.com/hughpyle/machinesalem-arduino-libs"
	"github.com/hughpyle/machinesalem-arduino-libs/i2c"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// odLine is one of the two open drain lines of a simulated bus.
type odLine struct {
	w      *wire
	latch  gpio.Level
	output bool
}

func (l *odLine) Input()  { l.output = false; l.w.changed() }
func (l *odLine) Output() { l.output = true; l.w.changed() }
func (l *odLine) High()   { l.Write(gpio.High) }
func (l *odLine) Low()    { l.Write(gpio.Low) }

func (l *odLine) Write(v gpio.Level) {
	l.latch = v
	l.w.changed()
}

func (l *odLine) Read() gpio.Level {
	scl, sda := l.w.levels()
	if l == &l.w.scl {
		return gpio.Level(scl)
	}
	return gpio.Level(sda)
}

func (l *odLine) pulled() bool {
	return l.output && l.latch == gpio.Low
}

// wire joins the master lines and a simulated slave.
type wire struct {
	scl   odLine
	sda   odLine
	slave slave
	// lines held low by a third party
	stuckSCL bool
	stuckSDA bool
}

func newWire(addr uint16) *wire {
	w := &wire{}
	w.scl.w = w
	w.sda.w = w
	w.slave.addr = addr
	w.slave.nackAt = -1
	w.slave.prevSCL = true
	w.slave.prevSDA = true
	return w
}

func (w *wire) levels() (scl, sda bool) {
	return !w.scl.pulled() && !w.stuckSCL,
		!w.sda.pulled() && !w.slave.drive && !w.stuckSDA
}

func (w *wire) changed() {
	w.slave.observe(w.levels())
	w.slave.prevSCL, w.slave.prevSDA = w.levels()
}

// slave decodes the master's transactions and responds as a slave at addr.
type slave struct {
	addr     uint16
	nackAt   int
	readData []byte

	prevSCL, prevSDA bool

	active    bool
	addressed bool
	pendingTx bool
	tx        bool
	ackClock  bool
	masterAck bool
	drive     bool
	bit       int
	cur       byte
	txByte    byte
	txIdx     int
	segment   []byte

	starts     int
	stops      int
	writes     [][]byte
	masterAcks []bool
}

func (s *slave) observe(scl, sda bool) {
	if scl && s.prevSCL && sda != s.prevSDA {
		if !sda {
			s.onStart()
		} else {
			s.onStop()
		}
		return
	}
	if scl && !s.prevSCL {
		s.onRise(sda)
	}
	if !scl && s.prevSCL {
		s.onFall()
	}
}

func (s *slave) flush() {
	if s.segment != nil {
		s.writes = append(s.writes, s.segment)
		s.segment = nil
	}
}

func (s *slave) onStart() {
	s.flush()
	s.starts++
	s.active = true
	s.addressed = false
	s.pendingTx = false
	s.tx = false
	s.ackClock = false
	s.drive = false
	s.bit = 0
	s.cur = 0
}

func (s *slave) onStop() {
	s.flush()
	s.stops++
	s.active = false
	s.tx = false
	s.drive = false
}

func (s *slave) onRise(sda bool) {
	if !s.active {
		return
	}
	if s.ackClock {
		if s.tx {
			s.masterAck = !sda
			s.masterAcks = append(s.masterAcks, s.masterAck)
		}
		return
	}
	if s.tx {
		return
	}
	s.cur <<= 1
	if sda {
		s.cur |= 1
	}
	s.bit++
}

func (s *slave) onFall() {
	if !s.active {
		return
	}
	if s.ackClock {
		s.ackClock = false
		s.drive = false
		s.bit = 0
		s.cur = 0
		switch {
		case s.pendingTx:
			s.pendingTx = false
			s.tx = true
			s.loadNext()
		case s.tx && s.masterAck:
			s.loadNext()
		case s.tx:
			s.tx = false
		}
		return
	}
	if s.tx {
		s.bit++
		if s.bit == 8 {
			s.drive = false
			s.ackClock = true
			return
		}
		s.drive = s.txByte>>uint(7-s.bit)&0x01 == 0
		return
	}
	if s.bit != 8 {
		return
	}
	if !s.addressed {
		s.addressed = true
		if uint16(s.cur>>1) != s.addr {
			s.active = false
			return
		}
		s.drive = true
		s.ackClock = true
		if s.cur&0x01 != 0 {
			s.pendingTx = true
		} else {
			s.segment = []byte{}
		}
		return
	}
	ack := s.nackAt < 0 || len(s.segment) < s.nackAt
	s.segment = append(s.segment, s.cur)
	s.drive = ack
	s.ackClock = true
}

func (s *slave) loadNext() {
	s.txByte = s.readData[s.txIdx%len(s.readData)]
	s.txIdx++
	s.bit = 0
	s.drive = s.txByte&0x80 == 0
}

func noSleep(time.Duration) {}

func newBus(t *testing.T, w *wire) *i2c.I2C {
	t.Helper()
	b := i2c.New(&w.scl, &w.sda, i2c.WithSleep(noSleep))
	require.Nil(t, b.Configure(i2c.Config{}))
	return b
}

func TestWrite(t *testing.T) {
	w := newWire(0x1a)
	b := newBus(t, w)
	err := b.Tx(0x1a, []byte{0x0e, 0x00}, nil)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{0x0e, 0x00}}, w.slave.writes)
	assert.Equal(t, 1, w.slave.starts)
	assert.Equal(t, 1, w.slave.stops)
	// bus left idle
	scl, sda := w.levels()
	assert.True(t, scl)
	assert.True(t, sda)
}

func TestWriteSequence(t *testing.T) {
	w := newWire(0x1b)
	b := newBus(t, w)
	assert.Nil(t, b.Tx(0x1b, []byte{0x12, 0x01}, nil))
	assert.Nil(t, b.Tx(0x1b, []byte{0x07, 0xff}, nil))
	assert.Equal(t, [][]byte{{0x12, 0x01}, {0x07, 0xff}}, w.slave.writes)
	assert.Equal(t, 2, w.slave.stops)
}

func TestAddressNack(t *testing.T) {
	w := newWire(0x1a)
	b := newBus(t, w)
	err := b.Tx(0x1b, []byte{0x0e, 0x00}, nil)
	assert.Equal(t, i2c.ErrNack, err)
	assert.Empty(t, w.slave.writes)
	assert.Equal(t, 1, w.slave.stops)
}

func TestDataNack(t *testing.T) {
	w := newWire(0x1a)
	w.slave.nackAt = 1
	b := newBus(t, w)
	err := b.Tx(0x1a, []byte{0x0e, 0x00, 0x55}, nil)
	assert.Equal(t, i2c.ErrNack, err)
	// master gives up after the refused byte
	assert.Equal(t, [][]byte{{0x0e, 0x00}}, w.slave.writes)
	assert.Equal(t, 1, w.slave.stops)
}

func TestReadRegister(t *testing.T) {
	w := newWire(0x68)
	w.slave.readData = []byte{0xde, 0xad}
	b := newBus(t, w)
	r := make([]byte, 2)
	err := b.Tx(0x68, []byte{0x05}, r)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, r)
	assert.Equal(t, [][]byte{{0x05}}, w.slave.writes)
	assert.Equal(t, 2, w.slave.starts)
	assert.Equal(t, 1, w.slave.stops)
	assert.Equal(t, []bool{true, false}, w.slave.masterAcks)
}

func TestBusBusy(t *testing.T) {
	w := newWire(0x1a)
	b := i2c.New(&w.scl, &w.sda, i2c.WithSleep(noSleep))

	w.stuckSDA = true
	assert.Equal(t, i2c.ErrBusBusy, b.Configure(i2c.Config{}))

	w.stuckSDA = false
	w.stuckSCL = true
	assert.Equal(t, i2c.ErrBusBusy, b.Configure(i2c.Config{}))

	// recovers once released
	w.stuckSCL = false
	assert.Nil(t, b.Configure(i2c.Config{}))
	assert.Nil(t, b.Tx(0x1a, []byte{0x12}, nil))
	assert.Equal(t, [][]byte{{0x12}}, w.slave.writes)
}

func TestNewUntouched(t *testing.T) {
	w := newWire(0x1a)
	w.scl.output = true
	i2c.New(&w.scl, &w.sda, i2c.WithSleep(noSleep))
	assert.True(t, w.scl.output)
	assert.False(t, w.sda.output)
	assert.Equal(t, 0, w.slave.starts)
}

func TestClockRate(t *testing.T) {
	w := newWire(0x1a)
	var slept []time.Duration
	b := i2c.New(&w.scl, &w.sda, i2c.WithSleep(func(d time.Duration) {
		slept = append(slept, d)
	}))
	require.Nil(t, b.Configure(i2c.Config{Frequency: 400000}))
	assert.Nil(t, b.Tx(0x1a, nil, nil))
	require.NotEmpty(t, slept)
	assert.Equal(t, 1250*time.Nanosecond, slept[0])
}
