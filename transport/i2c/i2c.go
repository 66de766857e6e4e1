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

// Package i2c provides the I2C transport for the MFRC522
package i2c

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the 7-bit address with all address pins low
	DefaultAddress = 0x28

	// Max clock frequency (400 kHz fast mode).
	maxClockFreq = 400 * physic.KiloHertz
)

// Config selects the I2C bus and chip address
type Config struct {
	// Bus is the periph bus name, e.g. "/dev/i2c-1" or "1". Empty opens the
	// first available bus.
	Bus string
	// Address is the 7-bit chip address. Zero means DefaultAddress.
	Address uint16
	// Frequency is the bus clock. Zero means 400 kHz.
	Frequency physic.Frequency
}

// ParsePath splits a "bus:0xADDR" path, as reported by detection, into a
// Config. A path without an address uses DefaultAddress.
func ParsePath(path string) (Config, error) {
	bus, addr, found := strings.Cut(path, ":")
	if !found {
		return Config{Bus: path}, nil
	}
	v, err := strconv.ParseUint(addr, 0, 7)
	if err != nil {
		return Config{}, fmt.Errorf("%w: I2C address %q: %w", mfrc522.ErrInvalidParameter, addr, err)
	}
	return Config{Bus: bus, Address: uint16(v)}, nil
}

type txConn interface {
	Tx(w, r []byte) error
}

type closer interface {
	Close() error
}

// Transport implements mfrc522.Transport over I2C.
//
// Each SPI framed exchange is translated to the I2C host interface: a register
// write sends [reg, value], a register read sends [reg] and reads one byte.
type Transport struct {
	dev     txConn
	bus     closer
	busName string
	mu      sync.Mutex
	closed  bool
}

// New creates a new I2C transport
func New(cfg Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", cfg.Bus, err)
	}

	addr := cfg.Address
	if addr == 0 {
		addr = DefaultAddress
	}
	freq := cfg.Frequency
	if freq == 0 {
		freq = maxClockFreq
	}
	if err := bus.SetSpeed(freq); err != nil {
		mfrc522.Debugf("I2C bus %s: keeping default speed: %v", bus, err)
	}

	name := cfg.Bus
	if name == "" {
		name = bus.String()
	}
	return newTransport(&i2c.Dev{Addr: addr, Bus: bus}, bus, name), nil
}

func newTransport(dev txConn, bus closer, busName string) *Transport {
	return &Transport{dev: dev, bus: bus, busName: busName}
}

// Tx performs one register access
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return mfrc522.NewTransportError("Tx", t.busName, mfrc522.ErrTransportClosed, mfrc522.ErrorTypePermanent)
	}
	if len(w) != 2 || (r != nil && len(r) != 2) {
		return mfrc522.NewDataTooLargeError("Tx", t.busName)
	}

	reg, read := mfrc522.DecodeAddress(w[0])
	if !read {
		if err := t.dev.Tx([]byte{byte(reg), w[1]}, nil); err != nil {
			return mfrc522.NewWriteError("Tx", t.busName, err)
		}
		return nil
	}

	var v [1]byte
	if err := t.dev.Tx([]byte{byte(reg)}, v[:]); err != nil {
		return mfrc522.NewReadError("Tx", t.busName, err)
	}
	if r != nil {
		r[0], r[1] = 0, v[0]
	}
	return nil
}

// Close closes the bus
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.bus == nil {
		t.closed = true
		return nil
	}
	t.closed = true
	if err := t.bus.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() mfrc522.TransportType {
	return mfrc522.TransportI2C
}

// Ensure Transport implements mfrc522.Transport
var _ mfrc522.Transport = (*Transport)(nil)
