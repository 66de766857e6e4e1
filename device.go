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
	"context"
	"fmt"
	"io"
	"time"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// StatusOutput receives the human readable status lines of block
	// operations ("Read error", "Data written", ...)
	StatusOutput io.Writer
	// CRCPollBudget is the number of DivIrqReg polls spent waiting for the
	// CRC coprocessor
	CRCPollBudget int
	// TransceivePollBudget is the number of ComIrqReg polls spent waiting for
	// a command to complete
	TransceivePollBudget int
	// ResetDelay is how long Init waits after the soft reset
	ResetDelay time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		StatusOutput:         io.Discard,
		CRCPollBudget:        DefaultCRCPollBudget,
		TransceivePollBudget: DefaultTransceivePollBudget,
		ResetDelay:           50 * time.Millisecond,
	}
}

// Validate checks the configuration for unusable values
func (c *DeviceConfig) Validate() error {
	if c.CRCPollBudget < 1 {
		return fmt.Errorf("%w: CRC poll budget must be at least 1, got %d", ErrInvalidParameter, c.CRCPollBudget)
	}
	if c.TransceivePollBudget < 1 {
		return fmt.Errorf("%w: transceive poll budget must be at least 1, got %d",
			ErrInvalidParameter, c.TransceivePollBudget)
	}
	if c.ResetDelay < 0 {
		return fmt.Errorf("%w: negative reset delay %s", ErrInvalidParameter, c.ResetDelay)
	}
	return nil
}

// Device represents an MFRC522 reader chip and the text slot on the tag in
// front of it.
//
// Thread Safety: Device is NOT thread-safe. The chip, its FIFO and the bus are
// owned by whoever is calling, for the whole duration of a call. Use one Device
// per goroutine or protect it with external synchronization.
type Device struct {
	transport Transport
	config    *DeviceConfig
	tx        [2]byte
	rx        [2]byte
}

// New creates a new MFRC522 device with the given transport. The chip is not
// touched until Init is called.
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.config.Validate(); err != nil {
		return nil, err
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Config returns a copy of the device configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// Init soft resets the chip, programs the timer and modulation registers and
// switches the antenna drivers on.
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext is Init with a context checked before the chip is touched
func (d *Device) InitContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("init cancelled: %w", err)
	}

	if err := d.WriteRegister(CommandReg, byte(CmdSoftReset)); err != nil {
		return fmt.Errorf("soft reset: %w", err)
	}
	if d.config.ResetDelay > 0 {
		time.Sleep(d.config.ResetDelay)
	}

	settings := []struct {
		reg Register
		val byte
	}{
		{TModeReg, initTMode},
		{TPrescalerReg, initTPrescaler},
		{TReloadRegL, initTReloadL},
		{TCounterRegH, initTCounterH},
		{TxASKReg, initTxASK},
		{ModeReg, initMode},
	}
	for _, s := range settings {
		if err := d.WriteRegister(s.reg, s.val); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}

	if err := d.AntennaOn(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	debugln("MFRC522 initialized")
	return nil
}

// AntennaOn enables the TX1 and TX2 antenna drivers if neither is enabled yet
func (d *Device) AntennaOn() error {
	v, err := d.ReadRegister(TxControlReg)
	if err != nil {
		return fmt.Errorf("antenna on: %w", err)
	}
	if v&txControlAntenna != 0 {
		return nil
	}
	if err := d.SetBits(TxControlReg, txControlAntenna); err != nil {
		return fmt.Errorf("antenna on: %w", err)
	}
	return nil
}

// AntennaOff disables the TX1 and TX2 antenna drivers
func (d *Device) AntennaOff() error {
	if err := d.ClearBits(TxControlReg, txControlAntenna); err != nil {
		return fmt.Errorf("antenna off: %w", err)
	}
	return nil
}

// Version reads VersionReg. Genuine parts report 0x91 (v1.0) or 0x92 (v2.0).
func (d *Device) Version() (byte, error) {
	v, err := d.ReadRegister(VersionReg)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if !IsKnownVersion(v) {
		return v, fmt.Errorf("%w: 0x%02X", ErrUnknownVersion, v)
	}
	return v, nil
}

// IsKnownVersion reports whether v is a VersionReg value of an MFRC522 or a
// known compatible clone.
func IsKnownVersion(v byte) bool {
	switch v {
	case 0x88, // FM17522
		0x90, // v0.0
		0x91, // v1.0
		0x92, // v2.0
		0xB2: // FM17522 variant
		return true
	default:
		return false
	}
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// status writes one status line to the configured output and the debug log.
func (d *Device) status(line string) {
	debugln(line)
	if d.config.StatusOutput == nil {
		return
	}
	if _, err := io.WriteString(d.config.StatusOutput, line+"\n"); err != nil {
		debugf("status output: %v", err)
	}
}
