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
	"fmt"
	"io"
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithCRCPollBudget sets how many times the CRC coprocessor is polled before
// the result registers are read regardless
func WithCRCPollBudget(budget int) Option {
	return func(d *Device) error {
		if budget < 1 {
			return fmt.Errorf("%w: CRC poll budget %d", ErrInvalidParameter, budget)
		}
		d.config.CRCPollBudget = budget
		return nil
	}
}

// WithTransceivePollBudget sets how many times ComIrqReg is polled before a
// command is given up on
func WithTransceivePollBudget(budget int) Option {
	return func(d *Device) error {
		if budget < 1 {
			return fmt.Errorf("%w: transceive poll budget %d", ErrInvalidParameter, budget)
		}
		d.config.TransceivePollBudget = budget
		return nil
	}
}

// WithStatusOutput sets where block status lines are written
func WithStatusOutput(w io.Writer) Option {
	return func(d *Device) error {
		if w == nil {
			w = io.Discard
		}
		d.config.StatusOutput = w
		return nil
	}
}

// WithResetDelay sets how long Init waits for the chip after a soft reset
func WithResetDelay(delay time.Duration) Option {
	return func(d *Device) error {
		d.config.ResetDelay = delay
		return nil
	}
}
