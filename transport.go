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

// Transport is the bus the MFRC522 is attached to.
//
// Register traffic is always framed the SPI way: the first byte written is the
// address byte ((reg << 1) & 0x7E, with 0x80 set for reads) and every Tx is one
// chip-select bracketed, full-duplex exchange where len(r) == len(w) or r is nil.
// Transports for the I2C and UART host interfaces translate this framing with
// DecodeAddress.
type Transport interface {
	// Tx asserts chip select, exchanges w for r, and releases chip select
	Tx(w, r []byte) error

	// Close closes the transport connection
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents SPI bus transport.
	TransportSPI TransportType = "spi"
	// TransportI2C represents I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a simulated chip for testing
	TransportMock TransportType = "mock"
)

// EncodeAddress builds the SPI address byte for reg.
func EncodeAddress(reg Register, read bool) byte {
	b := (byte(reg) << 1) & addrMask
	if read {
		b |= addrReadFlag
	}
	return b
}

// DecodeAddress recovers the register and direction from an SPI address byte.
func DecodeAddress(b byte) (reg Register, read bool) {
	return Register((b & addrMask) >> 1), b&addrReadFlag != 0
}
