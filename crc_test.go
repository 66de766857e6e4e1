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

func TestDevice_CalculateCRC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want [2]byte
	}{
		{name: "READ block 0", data: []byte{0x30, 0x00}, want: [2]byte{0x02, 0xA8}},
		{name: "HLTA", data: []byte{0x50, 0x00}, want: [2]byte{0x57, 0xCD}},
		{name: "empty", data: []byte{}, want: [2]byte{0x63, 0x63}},
		{name: "block payload", data: []byte("Hello, MFRC522!!"), want: testutil.CRCA([]byte("Hello, MFRC522!!"))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := NewVirtualChip(nil)
			chip.Poke(ModeReg, initMode)
			device := newTestDevice(t, chip)

			got, err := device.CalculateCRC(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "CRC must come back low byte first")
		})
	}
}

func TestDevice_CalculateCRC_Deterministic(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	chip.Poke(ModeReg, initMode)
	device := newTestDevice(t, chip)

	data := []byte{0xA0, 0x05}
	first, err := device.CalculateCRC(data)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := device.CalculateCRC(data)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDevice_CalculateCRC_RegisterSequence(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	device := newTestDevice(t, chip)

	_, err := device.CalculateCRC([]byte{0x30, 0x04})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x30, 0x04}, chip.WritesTo(FIFODataReg))
	assert.Equal(t, []byte{byte(CmdCalcCRC)}, chip.WritesTo(CommandReg))
	assert.Equal(t, []byte{fifoFlush}, chip.WritesTo(FIFOLevelReg))
	assert.Equal(t, []byte{divIrqCRC}, chip.WritesTo(DivIrqReg))
	assert.Equal(t, 1, chip.ReadCount(CRCResultRegL))
	assert.Equal(t, 1, chip.ReadCount(CRCResultRegH))
}

func TestDevice_CalculateCRC_StalledCoprocessor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   []Option
		budget int
	}{
		{name: "default budget", budget: DefaultCRCPollBudget},
		{name: "custom budget", opts: []Option{WithCRCPollBudget(7)}, budget: 7},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chip := NewVirtualChip(nil)
			chip.StallCRC = true
			chip.Poke(CRCResultRegL, 0xAA)
			chip.Poke(CRCResultRegH, 0xBB)
			device := newTestDevice(t, chip, tt.opts...)

			got, err := device.CalculateCRC([]byte{0x30, 0x04})
			require.NoError(t, err, "an exhausted CRC poll is not an error")
			assert.Equal(t, [2]byte{0xAA, 0xBB}, got, "latched result is returned")

			assert.Equal(t, tt.budget, chip.ReadCount(DivIrqReg))
		})
	}
}

func TestDevice_CalculateCRC_ClearsDoneFlag(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(nil)
	chip.Poke(ModeReg, initMode)
	device := newTestDevice(t, chip, WithCRCPollBudget(9))

	_, err := device.CalculateCRC([]byte{0x30, 0x04})
	require.NoError(t, err)
	require.Equal(t, byte(divIrqCRC), chip.Peek(DivIrqReg)&divIrqCRC)

	// A finished run must not satisfy the next run's poll
	chip.StallCRC = true
	chip.ResetCounters()

	_, err = device.CalculateCRC([]byte{0x30, 0x05})
	require.NoError(t, err)
	assert.Equal(t, []byte{divIrqCRC}, chip.WritesTo(DivIrqReg))
	assert.Zero(t, chip.Peek(DivIrqReg)&divIrqCRC)
	assert.Equal(t, 9, chip.ReadCount(DivIrqReg))
}
