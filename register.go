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

import "fmt"

// WriteRegister writes value to reg.
func (d *Device) WriteRegister(reg Register, value byte) error {
	d.tx[0] = EncodeAddress(reg, false)
	d.tx[1] = value
	if err := d.transport.Tx(d.tx[:], nil); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", byte(reg), err)
	}
	return nil
}

// ReadRegister returns the current value of reg.
func (d *Device) ReadRegister(reg Register) (byte, error) {
	d.tx[0] = EncodeAddress(reg, true)
	d.tx[1] = 0x00
	d.rx[0], d.rx[1] = 0, 0
	if err := d.transport.Tx(d.tx[:], d.rx[:]); err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", byte(reg), err)
	}
	return d.rx[1], nil
}

// SetBits ORs mask into reg.
func (d *Device) SetBits(reg Register, mask byte) error {
	v, err := d.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.WriteRegister(reg, v|mask)
}

// ClearBits clears the bits of mask in reg.
func (d *Device) ClearBits(reg Register, mask byte) error {
	v, err := d.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.WriteRegister(reg, v&^mask)
}

// writeFIFO pushes data into the FIFO one register write at a time.
func (d *Device) writeFIFO(data []byte) error {
	for _, b := range data {
		if err := d.WriteRegister(FIFODataReg, b); err != nil {
			return err
		}
	}
	return nil
}

// flushFIFO empties the FIFO and clears its overflow state.
func (d *Device) flushFIFO() error {
	return d.SetBits(FIFOLevelReg, fifoFlush)
}
