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

// Status is the chip-level outcome of a ToCard call.
type Status int

const (
	// StatusError means the command did not complete or the chip flagged an
	// error. It is the zero value: a result is an error until proven otherwise.
	StatusError Status = iota
	// StatusOK means the command completed without error flags
	StatusOK
	// StatusTimeout means the chip's timer expired before the tag answered
	StatusTimeout
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TransceiveResult is what one ToCard call produced.
type TransceiveResult struct {
	// Data holds up to 16 bytes drained from the FIFO (CmdTransceive only)
	Data []byte
	// BitLength is the number of valid bits received, as reported by
	// FIFOLevelReg and ControlReg.RxLastBits
	BitLength int
	Status    Status
}

// ToCard loads sendData into the FIFO, runs cmd and waits for the chip to
// signal completion. For CmdTransceive the frame is put on air and the tag's
// response is drained from the FIFO.
//
// The returned error only reports bus failures. Whether the chip and the tag
// were happy is in the result's Status. The received data is not CRC checked.
func (d *Device) ToCard(cmd Command, sendData []byte) (TransceiveResult, error) {
	result := TransceiveResult{Status: StatusError}

	if err := d.prepareCommand(sendData); err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}

	if err := d.WriteRegister(CommandReg, byte(cmd)); err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}
	if cmd == CmdTransceive {
		if err := d.SetBits(BitFramingReg, bitFramingStartSend); err != nil {
			return result, fmt.Errorf("to card: %w", err)
		}
	}

	irq, completed, err := d.waitForCompletion()
	if err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}

	if err := d.ClearBits(BitFramingReg, bitFramingStartSend); err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}

	if !completed {
		debugf("command 0x%02X: no completion after %d polls", byte(cmd), d.config.TransceivePollBudget)
		return result, nil
	}

	errFlags, err := d.ReadRegister(ErrorReg)
	if err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}
	if errFlags&errorMask != 0 {
		debugf("command 0x%02X: error flags 0x%02X", byte(cmd), errFlags)
		return result, nil
	}

	result.Status = StatusOK
	if irq&irqEnableMask&irqTimer != 0 {
		result.Status = StatusTimeout
	}

	if cmd != CmdTransceive {
		return result, nil
	}

	if err := d.drainFIFO(&result); err != nil {
		return result, fmt.Errorf("to card: %w", err)
	}
	return result, nil
}

// prepareCommand enables interrupt requests, clears pending ones, cancels
// whatever the chip was doing and stages sendData in an empty FIFO.
func (d *Device) prepareCommand(sendData []byte) error {
	if err := d.WriteRegister(ComIEnReg, irqEnableMask|irqEnableInv); err != nil {
		return err
	}
	if err := d.ClearBits(ComIrqReg, irqSet1); err != nil {
		return err
	}
	if err := d.flushFIFO(); err != nil {
		return err
	}
	if err := d.WriteRegister(CommandReg, byte(CmdIdle)); err != nil {
		return err
	}
	return d.writeFIFO(sendData)
}

// waitForCompletion polls ComIrqReg until the timer or one of the wait
// interrupts fires, at most TransceivePollBudget times. It returns the last
// value read and whether a completion condition was seen.
func (d *Device) waitForCompletion() (irq byte, completed bool, err error) {
	for attempt := 0; attempt < d.config.TransceivePollBudget; attempt++ {
		irq, err = d.ReadRegister(ComIrqReg)
		if err != nil {
			return irq, false, err
		}
		timerFired := irq&irqTimer != 0
		commandDone := irq&irqWait != 0
		if timerFired || commandDone {
			return irq, true, nil
		}
	}
	return irq, false, nil
}

// drainFIFO reads the response of a transceive into result.
func (d *Device) drainFIFO(result *TransceiveResult) error {
	level, err := d.ReadRegister(FIFOLevelReg)
	if err != nil {
		return err
	}
	control, err := d.ReadRegister(ControlReg)
	if err != nil {
		return err
	}

	n := int(level & fifoLevelMask)
	lastBits := int(control & controlRxLastBits)
	if lastBits != 0 {
		result.BitLength = (n-1)*8 + lastBits
	} else {
		result.BitLength = n * 8
	}

	n = max(n, 1)
	n = min(n, fifoMaxRead)

	result.Data = make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := d.ReadRegister(FIFODataReg)
		if err != nil {
			return err
		}
		result.Data = append(result.Data, b)
	}
	return nil
}
