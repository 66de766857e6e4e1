// go-mfrc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-mfrc522.
//
// go-mfrc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-mfrc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-mfrc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package mfrc522

import (
	"sync"

	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
)

// Simulated register bits not needed by the driver itself
const (
	simIrqRx         = 0x20
	simIrqTx         = 0x40
	simErrBufferOvfl = 0x10
	simFIFOSize      = 64
	simVersion       = 0x92
	simTxControlInit = 0x80
	simModeInit      = 0x3F
)

// RegisterWrite records one register write seen by a VirtualChip
type RegisterWrite struct {
	Reg   Register
	Value byte
}

// VirtualChip simulates an MFRC522 behind a Transport: register file, 64 byte
// FIFO, CRC coprocessor, interrupt request registers and the transceive
// command, with an optional virtual tag in its field.
//
// VirtualChip answers every command synchronously: by the time the driver
// polls, the interrupt bits are already set.
type VirtualChip struct {
	// TxErr, if set, is returned by every Tx
	TxErr error
	// Tag is the tag in the field; nil means an empty field
	Tag *testutil.VirtualTag
	// Respond, if set, answers transceived frames instead of Tag
	Respond func(frame []byte) (resp []byte, lastBits int)

	reads  map[Register]int
	writes []RegisterWrite
	fifo   []byte
	regs   [64]byte
	mu     sync.Mutex

	// NeverComplete makes ComIrqReg always read 0
	NeverComplete bool
	// StallCRC keeps the CRC coprocessor from ever finishing
	StallCRC bool
	// ForceTimer raises the timer interrupt together with every response
	ForceTimer bool
	// ErrorFlags is loaded into ErrorReg after every transceive
	ErrorFlags byte
	// TxControlReset is the TxControlReg value after a soft reset
	TxControlReset byte

	command Command
	closed  bool
}

// NewVirtualChip creates a simulated chip with tag in its field
func NewVirtualChip(tag *testutil.VirtualTag) *VirtualChip {
	c := &VirtualChip{
		Tag:            tag,
		TxControlReset: simTxControlInit,
		reads:          make(map[Register]int),
	}
	c.reset()
	return c
}

// Tx implements Transport
func (c *VirtualChip) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrTransportClosed
	}
	if c.TxErr != nil {
		return c.TxErr
	}
	if len(w) != 2 || (r != nil && len(r) != len(w)) {
		return NewDataTooLargeError("Tx", "virtual")
	}

	reg, read := DecodeAddress(w[0])
	if read {
		v := c.readReg(reg)
		if r != nil {
			r[0], r[1] = 0, v
		}
		return nil
	}
	c.writeReg(reg, w[1])
	return nil
}

// Close implements Transport
func (c *VirtualChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Type returns TransportMock
func (*VirtualChip) Type() TransportType {
	return TransportMock
}

// ReadCount returns how many times reg was read
func (c *VirtualChip) ReadCount(reg Register) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[reg]
}

// Writes returns a copy of the register write log
func (c *VirtualChip) Writes() []RegisterWrite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RegisterWrite(nil), c.writes...)
}

// WritesTo returns the values written to reg, in order
func (c *VirtualChip) WritesTo(reg Register) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var values []byte
	for _, w := range c.writes {
		if w.Reg == reg {
			values = append(values, w.Value)
		}
	}
	return values
}

// ResetCounters forgets all recorded reads and writes
func (c *VirtualChip) ResetCounters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = make(map[Register]int)
	c.writes = nil
}

// Peek returns the raw value of reg without side effects
func (c *VirtualChip) Peek(reg Register) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg&0x3F]
}

// Poke sets the raw value of reg without side effects
func (c *VirtualChip) Poke(reg Register, v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg&0x3F] = v
}

func (c *VirtualChip) reset() {
	c.regs = [64]byte{}
	c.regs[TxControlReg] = c.TxControlReset
	c.regs[ModeReg] = simModeInit
	c.regs[VersionReg] = simVersion
	c.fifo = nil
	c.command = CmdIdle
}

func (c *VirtualChip) readReg(reg Register) byte {
	c.reads[reg]++

	switch reg {
	case FIFODataReg:
		if len(c.fifo) == 0 {
			return 0
		}
		b := c.fifo[0]
		c.fifo = c.fifo[1:]
		return b
	case FIFOLevelReg:
		return byte(len(c.fifo))
	case ComIrqReg:
		if c.NeverComplete {
			return 0
		}
	}
	return c.regs[reg&0x3F]
}

func (c *VirtualChip) writeReg(reg Register, v byte) {
	c.writes = append(c.writes, RegisterWrite{Reg: reg, Value: v})

	switch reg {
	case CommandReg:
		c.regs[CommandReg] = v
		c.execute(Command(v & 0x0F))
	case FIFODataReg:
		if len(c.fifo) >= simFIFOSize {
			c.regs[ErrorReg] |= simErrBufferOvfl
			return
		}
		c.fifo = append(c.fifo, v)
	case FIFOLevelReg:
		if v&fifoFlush != 0 {
			c.fifo = nil
			c.regs[ErrorReg] &^= simErrBufferOvfl
		}
	case ComIrqReg, DivIrqReg:
		// Set1/Set2: bit 7 decides whether the marked bits are set or cleared
		if v&0x80 != 0 {
			c.regs[reg] |= v & 0x7F
		} else {
			c.regs[reg] &^= v & 0x7F
		}
	case BitFramingReg:
		c.regs[BitFramingReg] = v
		if v&bitFramingStartSend != 0 && c.command == CmdTransceive {
			c.transceive()
		}
	case VersionReg:
		// read-only
	default:
		c.regs[reg&0x3F] = v
	}
}

func (c *VirtualChip) execute(cmd Command) {
	switch cmd {
	case CmdSoftReset:
		c.reset()
	case CmdCalcCRC:
		c.command = cmd
		if c.StallCRC {
			return
		}
		crc := testutil.CRC16(c.crcPreset(), c.fifo)
		c.fifo = nil
		c.regs[CRCResultRegL] = crc[0]
		c.regs[CRCResultRegH] = crc[1]
		c.regs[DivIrqReg] |= divIrqCRC
	case CmdTransceive:
		c.command = cmd
		c.regs[ErrorReg] = 0
	default:
		c.command = cmd
	}
}

// crcPreset decodes ModeReg.CRCPreset.
func (c *VirtualChip) crcPreset() uint16 {
	switch c.regs[ModeReg] & 0x03 {
	case 0x00:
		return testutil.PresetZero
	case 0x01:
		return testutil.PresetA
	case 0x02:
		return testutil.PresetA671
	default:
		return testutil.PresetB
	}
}

func (c *VirtualChip) transceive() {
	frame := c.fifo
	c.fifo = nil
	c.regs[ComIrqReg] |= simIrqTx

	var resp []byte
	var lastBits int
	switch {
	case c.Respond != nil:
		resp, lastBits = c.Respond(frame)
	case c.Tag != nil:
		resp, lastBits = c.Tag.Exchange(frame)
	}

	c.regs[ControlReg] &^= controlRxLastBits
	if resp == nil {
		c.regs[ComIrqReg] |= irqTimer
		return
	}

	if len(resp) > simFIFOSize {
		resp = resp[:simFIFOSize]
		c.regs[ErrorReg] |= simErrBufferOvfl
	}
	c.fifo = append([]byte(nil), resp...)
	c.regs[ControlReg] |= byte(lastBits) & controlRxLastBits
	c.regs[ComIrqReg] |= simIrqRx
	if c.ForceTimer {
		c.regs[ComIrqReg] |= irqTimer
	}
	c.regs[ErrorReg] |= c.ErrorFlags
}

// Ensure VirtualChip implements Transport
var _ Transport = (*VirtualChip)(nil)
