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

/*
Package mfrc522 provides a pure Go driver for the NXP MFRC522 contactless
reader chip.

The driver talks to the chip through its registers, uses the on-chip CRC
coprocessor and drives the Transceive command to exchange ISO/IEC 14443 A
frames with a tag in the field. On top of that it offers single block READ and
WRITE and a text slot of 48 bytes stored in blocks 4, 5 and 6.

Features:
  - Register access with set and clear bit helpers
  - CRC_A through the chip's coprocessor
  - Bounded polling everywhere, no call waits forever
  - SPI, I2C and UART transports
  - Automatic reader detection

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-mfrc522"
	    "github.com/ZaparooProject/go-mfrc522/transport/spi"
	)

	transport, err := spi.New(spi.Config{Port: "/dev/spidev0.0"})
	if err != nil {
	    log.Fatal(err)
	}

	device, err := mfrc522.New(transport, mfrc522.WithStatusOutput(os.Stdout))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	if err := device.WriteText("hello"); err != nil {
	    log.Printf("some blocks were not written: %v", err)
	}

	text, err := device.ReadText()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(text)

Status Lines:

Block operations report their outcome as text lines on the configured status
output: "Read error", "Write request failed", "Write error" and
"Data written". The same lines are logged when debug output is enabled with
SetDebugEnabled.

Testing:

VirtualChip simulates the chip's register file, FIFO, CRC coprocessor and
interrupt flags, and forwards transceived frames to a virtual tag. It
implements Transport, so tests run the real driver code without hardware.
*/
package mfrc522
