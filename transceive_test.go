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
	"testing"

	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(resp []byte, lastBits int) func([]byte) ([]byte, int) {
	return func([]byte) ([]byte, int) {
		out := make([]byte, len(resp))
		copy(out, resp)
		return out, lastBits
	}
}

func TestDevice_ToCard_NeverCompletes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   []Option
		budget int
	}{
		{name: "default budget", budget: DefaultTransceivePollBudget},
		{name: "custom budget", opts: []Option{WithTransceivePollBudget(25)}, budget: 25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := NewVirtualChip(testutil.NewVirtualMIFARE1K(nil))
			chip.NeverComplete = true
			device := newTestDevice(t, chip, tt.opts...)

			res, err := device.ToCard(CmdTransceive, []byte{0x30, 0x04, 0x26, 0xEE})
			require.NoError(t, err)

			assert.Equal(t, StatusError, res.Status)
			assert.Empty(t, res.Data)
			assert.Zero(t, res.BitLength)

			// One read for clearing pending requests, then exactly the poll budget
			assert.Equal(t, 1+tt.budget, chip.ReadCount(ComIrqReg))
			assert.Zero(t, chip.ReadCount(ErrorReg), "error register is not consulted after exhaustion")
			assert.Zero(t, chip.ReadCount(FIFODataReg))
		})
	}
}

func TestDevice_ToCard_BitLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		resp      []byte
		lastBits  int
		wantData  int
		wantBits  int
		wantFirst byte
	}{
		{name: "4 bit ACK", resp: []byte{0x0A}, lastBits: 4, wantData: 1, wantBits: 4, wantFirst: 0x0A},
		{name: "full byte", resp: []byte{0x42}, lastBits: 0, wantData: 1, wantBits: 8, wantFirst: 0x42},
		{name: "5 bytes, 3 bits in last", resp: []byte{1, 2, 3, 4, 5}, lastBits: 3, wantData: 5, wantBits: 35, wantFirst: 1},
		{name: "16 bytes", resp: make([]byte, 16), lastBits: 0, wantData: 16, wantBits: 128},
		{name: "16 bytes, 7 bits in last", resp: make([]byte, 16), lastBits: 7, wantData: 16, wantBits: 127},
		{name: "18 bytes clamp to 16", resp: make([]byte, 18), lastBits: 0, wantData: 16, wantBits: 144},
		{name: "empty response still drains one byte", resp: []byte{}, lastBits: 0, wantData: 1, wantBits: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := NewVirtualChip(nil)
			chip.Respond = respondWith(tt.resp, tt.lastBits)
			device := newTestDevice(t, chip)

			res, err := device.ToCard(CmdTransceive, []byte{0x01, 0x02})
			require.NoError(t, err)

			assert.Equal(t, StatusOK, res.Status)
			assert.Len(t, res.Data, tt.wantData)
			assert.Equal(t, tt.wantBits, res.BitLength)
			assert.Equal(t, tt.wantFirst, res.Data[0])
			assert.Equal(t, tt.wantData, chip.ReadCount(FIFODataReg))
		})
	}
}

func TestDevice_ToCard_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup      func(*VirtualChip)
		name       string
		wantStatus Status
		wantData   bool
	}{
		{
			name:       "clean response",
			setup:      func(c *VirtualChip) { c.Respond = respondWith([]byte{0x0A}, 4) },
			wantStatus: StatusOK,
			wantData:   true,
		},
		{
			name: "parity error",
			setup: func(c *VirtualChip) {
				c.Respond = respondWith([]byte{0x0A}, 4)
				c.ErrorFlags = 0x02
			},
			wantStatus: StatusError,
		},
		{
			name: "collision",
			setup: func(c *VirtualChip) {
				c.Respond = respondWith([]byte{0x0A}, 4)
				c.ErrorFlags = 0x08
			},
			wantStatus: StatusError,
		},
		{
			name: "CRC error is not in the checked mask",
			setup: func(c *VirtualChip) {
				c.Respond = respondWith([]byte{0x0A}, 4)
				c.ErrorFlags = 0x04
			},
			wantStatus: StatusOK,
			wantData:   true,
		},
		{
			name: "timer fired with response",
			setup: func(c *VirtualChip) {
				c.Respond = respondWith([]byte{0x0A}, 4)
				c.ForceTimer = true
			},
			wantStatus: StatusTimeout,
			wantData:   true,
		},
		{
			name:       "empty field times out",
			setup:      func(*VirtualChip) {},
			wantStatus: StatusTimeout,
			wantData:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := NewVirtualChip(nil)
			tt.setup(chip)
			device := newTestDevice(t, chip)

			res, err := device.ToCard(CmdTransceive, []byte{0x30, 0x04})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantData {
				assert.NotEmpty(t, res.Data)
			} else {
				assert.Empty(t, res.Data)
			}
		})
	}
}

func TestDevice_ToCard_StartSend(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	chip.Respond = respondWith([]byte{0x0A}, 4)
	device := newTestDevice(t, chip)

	_, err := device.ToCard(CmdTransceive, []byte{0x30, 0x04})
	require.NoError(t, err)

	framing := chip.WritesTo(BitFramingReg)
	require.Len(t, framing, 2)
	assert.NotZero(t, framing[0]&bitFramingStartSend, "transceive sets StartSend")
	assert.Zero(t, framing[1]&bitFramingStartSend, "StartSend is cleared afterwards")

	assert.Equal(t, []byte{irqEnableMask | irqEnableInv}, chip.WritesTo(ComIEnReg))
	assert.Equal(t, []byte{byte(CmdIdle), byte(CmdTransceive)}, chip.WritesTo(CommandReg))
	assert.Equal(t, []byte{0x30, 0x04}, chip.WritesTo(FIFODataReg))
}

func TestDevice_ToCard_OtherCommand(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	device := newTestDevice(t, chip, WithTransceivePollBudget(10))

	res, err := device.ToCard(CmdCalcCRC, []byte{0x30, 0x04})
	require.NoError(t, err)

	assert.Equal(t, StatusError, res.Status)
	assert.Empty(t, res.Data)

	framing := chip.WritesTo(BitFramingReg)
	require.Len(t, framing, 1, "only the unconditional StartSend clear")
	assert.Zero(t, framing[0]&bitFramingStartSend)
	assert.Equal(t, 1, chip.ReadCount(FIFOLevelReg), "FIFO level only read by the flush")
}

func TestDevice_ToCard_BusError(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	chip.TxErr = NewTimeoutError("Tx", "virtual")
	device := newTestDevice(t, chip)

	res, err := device.ToCard(CmdTransceive, []byte{0x30, 0x04})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTransportTimeout)
	assert.Equal(t, StatusError, res.Status)
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "timeout", StatusTimeout.String())
	assert.Equal(t, "status(9)", Status(9).String())
	assert.Equal(t, StatusError, TransceiveResult{}.Status, "zero value is a failure")
}
