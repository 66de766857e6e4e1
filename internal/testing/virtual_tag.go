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

package testing

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Air interface constants of an ISO14443A tag with 16 byte blocks
const (
	BlockSize = 16

	CmdRead  = 0x30
	CmdWrite = 0xA0

	// Ack is the 4 bit acknowledge. Nak values are 4 bits too.
	Ack        = 0x0A
	NakInvalid = 0x00
	NakCRC     = 0x01

	// ackBits is the number of valid bits in an ACK/NAK byte
	ackBits = 4
)

// TestMIFARE1KUID is a sample MIFARE Classic 1K UID
var TestMIFARE1KUID = []byte{0x12, 0x34, 0x56, 0x78}

var (
	errTagNotPresent  = errors.New("tag not present")
	errBlockRange     = errors.New("block out of range")
	errWriteProtected = errors.New("block is write protected")
)

// VirtualTag represents a simulated ISO14443A tag for testing
type VirtualTag struct {
	Type    string
	UID     []byte
	Memory  [][]byte // Block-based memory layout
	Present bool     // Whether the tag is currently present

	// NakWriteRequest makes the tag refuse the first phase of every write
	NakWriteRequest bool
	// NakWriteData makes the tag refuse the data phase of every write
	NakWriteData bool
	// Unreadable lists blocks whose READ is answered with a NAK
	Unreadable map[int]bool

	// pendingWrite is the block accepted by the last WRITE request, -1 if none
	pendingWrite int
}

// NewVirtualTag creates a tag with the given number of zeroed blocks and no
// write protection
func NewVirtualTag(blocks int, uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestMIFARE1KUID
	}

	tag := &VirtualTag{
		Type:         "GENERIC",
		UID:          uid,
		Memory:       make([][]byte, blocks),
		Present:      true,
		Unreadable:   make(map[int]bool),
		pendingWrite: -1,
	}
	for i := range tag.Memory {
		tag.Memory[i] = make([]byte, BlockSize)
	}
	copy(tag.Memory[0], uid)
	return tag
}

// NewVirtualMIFARE1K creates a virtual MIFARE Classic 1K tag
func NewVirtualMIFARE1K(uid []byte) *VirtualTag {
	tag := NewVirtualTag(64, uid)
	tag.Type = "MIFARE1K"

	// Set default keys and access bits for sector trailers
	for sector := 0; sector < 16; sector++ {
		trailerBlock := sector*4 + 3
		tag.Memory[trailerBlock] = []byte{
			0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // Key A
			0xFF, 0x07, 0x80, 0x69, // Access bits
			0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // Key B
		}
	}
	return tag
}

// GetUIDString returns the UID as a hex string
func (v *VirtualTag) GetUIDString() string {
	return hex.EncodeToString(v.UID)
}

// ReadBlock reads a specific memory block
func (v *VirtualTag) ReadBlock(block int) ([]byte, error) {
	if !v.Present {
		return nil, errTagNotPresent
	}
	if block < 0 || block >= len(v.Memory) {
		return nil, fmt.Errorf("%w: %d", errBlockRange, block)
	}

	// Return a copy to prevent modification
	data := make([]byte, BlockSize)
	copy(data, v.Memory[block])
	return data, nil
}

// WriteBlock writes data to a specific memory block
func (v *VirtualTag) WriteBlock(block int, data []byte) error {
	if !v.Present {
		return errTagNotPresent
	}
	if block < 0 || block >= len(v.Memory) {
		return fmt.Errorf("%w: %d", errBlockRange, block)
	}
	if v.isBlockWriteProtected(block) {
		return fmt.Errorf("%w: %d", errWriteProtected, block)
	}
	if len(data) != BlockSize {
		return fmt.Errorf("data must be exactly %d bytes, got %d", BlockSize, len(data))
	}

	v.Memory[block] = make([]byte, BlockSize)
	copy(v.Memory[block], data)
	return nil
}

// Remove sets the tag as not present
func (v *VirtualTag) Remove() {
	v.Present = false
	v.pendingWrite = -1
}

// Insert sets the tag as present
func (v *VirtualTag) Insert() {
	v.Present = true
}

// Exchange handles one frame received over the air and returns the tag's
// answer and the number of valid bits in its last byte (0 meaning all 8).
// A nil answer means the tag stayed silent.
func (v *VirtualTag) Exchange(frame []byte) (resp []byte, lastBits int) {
	if !v.Present {
		return nil, 0
	}

	pending := v.pendingWrite
	v.pendingWrite = -1

	if len(frame) < 3 || !CheckCRCA(frame) {
		return []byte{NakCRC}, ackBits
	}
	payload := frame[:len(frame)-2]

	if pending >= 0 {
		return v.writeData(pending, payload)
	}

	switch payload[0] {
	case CmdRead:
		return v.read(payload)
	case CmdWrite:
		return v.writeRequest(payload)
	default:
		return nil, 0
	}
}

func (v *VirtualTag) read(payload []byte) ([]byte, int) {
	if len(payload) != 2 {
		return []byte{NakInvalid}, ackBits
	}
	block := int(payload[1])
	if v.Unreadable[block] {
		return []byte{NakInvalid}, ackBits
	}
	data, err := v.ReadBlock(block)
	if err != nil {
		return []byte{NakInvalid}, ackBits
	}
	return AppendCRCA(data), 0
}

func (v *VirtualTag) writeRequest(payload []byte) ([]byte, int) {
	if len(payload) != 2 || v.NakWriteRequest {
		return []byte{NakInvalid}, ackBits
	}
	block := int(payload[1])
	if block >= len(v.Memory) || v.isBlockWriteProtected(block) {
		return []byte{NakInvalid}, ackBits
	}
	v.pendingWrite = block
	return []byte{Ack}, ackBits
}

func (v *VirtualTag) writeData(block int, payload []byte) ([]byte, int) {
	if len(payload) != BlockSize || v.NakWriteData {
		return []byte{NakInvalid}, ackBits
	}
	if err := v.WriteBlock(block, payload); err != nil {
		return []byte{NakInvalid}, ackBits
	}
	return []byte{Ack}, ackBits
}

func (v *VirtualTag) isBlockWriteProtected(block int) bool {
	if block == 0 {
		// Manufacturer block
		return true
	}
	if v.Type == "MIFARE1K" {
		// Sector trailers are write-protected without proper authentication
		return (block+1)%4 == 0
	}
	return false
}
