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

// CRC presets selectable through the MFRC522 ModeReg CRCPreset bits
const (
	PresetZero uint16 = 0x0000
	PresetA    uint16 = 0x6363
	PresetA671 uint16 = 0xA671
	PresetB    uint16 = 0xFFFF
)

// CRC16 computes the ISO14443 CRC with the given preset and returns it low
// byte first, the order it goes on air.
func CRC16(preset uint16, data []byte) [2]byte {
	crc := uint32(preset)
	for _, bt := range data {
		bt ^= uint8(crc & 0xff)
		bt ^= bt << 4
		bt32 := uint32(bt)
		crc = (crc >> 8) ^ (bt32 << 8) ^ (bt32 << 3) ^ (bt32 >> 4)
	}
	return [2]byte{byte(crc & 0xff), byte((crc >> 8) & 0xff)}
}

// CRCA computes the ISO14443A CRC of data.
func CRCA(data []byte) [2]byte {
	return CRC16(PresetA, data)
}

// AppendCRCA appends the ISO14443A CRC of data to data.
func AppendCRCA(data []byte) []byte {
	crc := CRCA(data)
	return append(data, crc[0], crc[1])
}

// CheckCRCA reports whether the last two bytes of frame are the CRC_A of the
// bytes before them.
func CheckCRCA(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	n := len(frame) - 2
	crc := CRCA(frame[:n])
	return frame[n] == crc[0] && frame[n+1] == crc[1]
}
