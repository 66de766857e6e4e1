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

//go:build linux

package i2c

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/go-mfrc522/detection"
	"golang.org/x/sys/unix"
)

const (
	// i2cSlave is the ioctl that selects the slave address
	i2cSlave = 0x0703
	// i2cFuncs is the ioctl that reports adapter functionality
	i2cFuncs = 0x0705
	// i2cFuncI2C indicates plain I2C transfers
	i2cFuncI2C = 0x00000001
)

// fdBus talks to the currently selected slave of an i2c-dev file
type fdBus int

func (fd fdBus) Write(p []byte) (int, error) {
	return unix.Write(int(fd), p)
}

func (fd fdBus) Read(p []byte) (int, error) {
	return unix.Read(int(fd), p)
}

// detectPlatform searches for MFRC522 devices on Linux I2C buses
func detectPlatform(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	buses, err := findBuses()
	if err != nil {
		return nil, err
	}

	var devices []detection.DeviceInfo
	for _, busPath := range buses {
		if err := ctx.Err(); err != nil {
			return devices, fmt.Errorf("%w: %w", detection.ErrDetectionTimeout, err)
		}
		found, err := detectBus(ctx, busPath, opts)
		if err != nil {
			continue
		}
		devices = append(devices, found...)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func detectBus(ctx context.Context, busPath string, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if opts.Mode == detection.Passive {
		return scanBus(ctx, busPath, opts, nil), nil
	}

	fd, err := unix.Open(busPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", busPath, err)
	}
	defer func() { _ = unix.Close(fd) }()

	return scanBus(ctx, busPath, opts, func(addr uint16) (regBus, error) {
		if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
			return nil, fmt.Errorf("select address: %w", err)
		}
		return fdBus(fd), nil
	}), nil
}

// findBuses returns the i2c-dev nodes whose adapter supports plain I2C
func findBuses() ([]string, error) {
	matches, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C devices: %w", err)
	}

	buses := make([]string, 0, len(matches))
	for _, path := range matches {
		fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
		if err != nil {
			continue
		}
		funcs, err := unix.IoctlGetUint32(fd, i2cFuncs)
		_ = unix.Close(fd)
		if err != nil || funcs&i2cFuncI2C == 0 {
			continue
		}
		buses = append(buses, path)
	}
	return buses, nil
}
