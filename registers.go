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

// Register is the 6-bit address of an MFRC522 internal register.
type Register byte

// Chip registers, named after the MFRC522 datasheet (section 9.2).
const (
	CommandReg    Register = 0x01 // starts and stops command execution
	ComIEnReg     Register = 0x02 // enable and disable interrupt request control bits
	DivIEnReg     Register = 0x03
	ComIrqReg     Register = 0x04 // interrupt request bits
	DivIrqReg     Register = 0x05 // interrupt request bits (CRCIRq lives here)
	ErrorReg      Register = 0x06 // error status of the last command executed
	Status1Reg    Register = 0x07
	Status2Reg    Register = 0x08
	FIFODataReg   Register = 0x09 // input and output of 64 byte FIFO buffer
	FIFOLevelReg  Register = 0x0A // number of bytes stored in the FIFO buffer
	WaterLevelReg Register = 0x0B
	ControlReg    Register = 0x0C // RxLastBits lives in bits 2..0
	BitFramingReg Register = 0x0D // adjustments for bit-oriented frames, StartSend
	CollReg       Register = 0x0E
	ModeReg       Register = 0x11 // general modes for transmitting and receiving, CRC preset
	TxModeReg     Register = 0x12
	RxModeReg     Register = 0x13
	TxControlReg  Register = 0x14 // antenna driver pins TX1 and TX2
	TxASKReg      Register = 0x15 // transmit modulation settings
	CRCResultRegH Register = 0x21
	CRCResultRegL Register = 0x22
	TModeReg      Register = 0x2A // timer settings
	TPrescalerReg Register = 0x2B
	TReloadRegH   Register = 0x2C
	TReloadRegL   Register = 0x2D
	TCounterRegH  Register = 0x2E
	TCounterRegL  Register = 0x2F
	VersionReg    Register = 0x37 // software version
)

// Command is an MFRC522 command opcode written to CommandReg.
type Command byte

// Chip commands.
const (
	CmdIdle       Command = 0x00
	CmdCalcCRC    Command = 0x03
	CmdTransceive Command = 0x0C
	CmdSoftReset  Command = 0x0F
)

// Tag-facing (PICC) commands sent through the transceive engine.
const (
	piccRead  = 0x30
	piccWrite = 0xA0

	// piccAck is the 4-bit acknowledge returned by the tag.
	piccAck = 0x0A
)

// Register bits.
const (
	// ComIEnReg: every request source enabled, plus IRqInv.
	irqEnableMask = 0x77
	irqEnableInv  = 0x80

	// ComIrqReg bits. Writes with irqSet1 clear set the marked bits to 0.
	irqSet1  = 0x80
	irqTimer = 0x01
	irqWait  = 0x30 // RxIRq | IdleIRq

	// DivIrqReg bits.
	divIrqCRC = 0x04

	// FIFOLevelReg bits.
	fifoFlush     = 0x80
	fifoLevelMask = 0x7F

	// BitFramingReg bits.
	bitFramingStartSend = 0x80

	// ControlReg bits.
	controlRxLastBits = 0x07

	// ErrorReg: BufferOvfl | CollErr | ParityErr | ProtocolErr.
	errorMask = 0x1B

	// TxControlReg: Tx2RFEn | Tx1RFEn.
	txControlAntenna = 0x03

	// SPI address byte framing.
	addrReadFlag = 0x80
	addrMask     = 0x7E
)

// Block geometry for the text slot.
const (
	// BlockSize is the number of bytes in a tag memory block.
	BlockSize = 16

	// TextSize is the number of bytes held by the text slot.
	TextSize = BlockSize * 3

	// fifoMaxRead caps the number of bytes drained from the FIFO after a transceive.
	fifoMaxRead = 16
)

// TextBlocks are the block addresses that together hold the text slot, in order.
var TextBlocks = [3]byte{4, 5, 6}

// Initialisation values written by Init.
const (
	initTMode      = 0x8D // TAuto, prescaler high nibble 0xD
	initTPrescaler = 0x3E
	initTReloadL   = 30
	initTCounterH  = 0
	initTxASK      = 0x40 // force 100% ASK
	initMode       = 0x3D // CRC preset 0x6363
)

// Default poll budgets.
const (
	DefaultCRCPollBudget        = 255
	DefaultTransceivePollBudget = 2000
)
