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

// Package i2c finds MFRC522 readers on I2C buses
package i2c

import (
	"context"
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/detection"
)

const (
	// DefaultAddress is the MFRC522 address with all address pins low
	DefaultAddress = 0x28
	// lastAddress is the highest address reachable through the address pins
	lastAddress = 0x2F
)

// detector implements the Detector interface for I2C devices
type detector struct{}

// New creates a new I2C detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "i2c"
}

// Detect searches for MFRC522 devices on I2C buses
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	return detectPlatform(ctx, opts)
}

// regBus is a bus with the slave address already selected
type regBus interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
}

// probeVersion reads the version register through the I2C host interface
func probeVersion(bus regBus) (byte, bool) {
	if n, err := bus.Write([]byte{byte(mfrc522.VersionReg)}); err != nil || n != 1 {
		return 0, false
	}
	var v [1]byte
	if n, err := bus.Read(v[:]); err != nil || n != 1 {
		return 0, false
	}
	return v[0], mfrc522.IsKnownVersion(v[0])
}

// candidateAddresses returns the addresses detection may look at
func candidateAddresses(mode detection.Mode) []uint16 {
	if mode == detection.Passive {
		return []uint16{DefaultAddress}
	}
	addrs := make([]uint16, 0, lastAddress-DefaultAddress+1)
	for a := uint16(DefaultAddress); a <= lastAddress; a++ {
		addrs = append(addrs, a)
	}
	return addrs
}

// devicePath formats the bus and address the way transport/i2c accepts them
func devicePath(busPath string, addr uint16) string {
	return fmt.Sprintf("%s:0x%02X", busPath, addr)
}

func newDeviceInfo(busPath string, addr uint16) detection.DeviceInfo {
	return detection.DeviceInfo{
		Transport:  "i2c",
		Path:       devicePath(busPath, addr),
		Name:       fmt.Sprintf("MFRC522 on %s address 0x%02X", busPath, addr),
		Confidence: detection.Medium,
		Metadata: map[string]string{
			"bus":     busPath,
			"address": fmt.Sprintf("0x%02X", addr),
		},
	}
}

// scanBus probes each candidate address. open selects the address and returns
// a bus to talk to it.
func scanBus(
	ctx context.Context,
	busPath string,
	opts *detection.Options,
	open func(addr uint16) (regBus, error),
) []detection.DeviceInfo {
	var devices []detection.DeviceInfo

	for _, addr := range candidateAddresses(opts.Mode) {
		if ctx.Err() != nil {
			break
		}
		path := devicePath(busPath, addr)
		if detection.IsPathIgnored(path, opts.IgnorePaths) {
			continue
		}

		info := newDeviceInfo(busPath, addr)
		if opts.Mode == detection.Passive {
			devices = append(devices, info)
			continue
		}

		bus, err := open(addr)
		if err != nil {
			mfrc522.Debugf("i2c detection: %s: %v", path, err)
			continue
		}
		version, ok := probeVersion(bus)
		if !ok {
			continue
		}
		info.Confidence = detection.High
		info.Metadata["version"] = fmt.Sprintf("0x%02X", version)
		devices = append(devices, info)
	}

	return devices
}
