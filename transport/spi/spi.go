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

// Package spi provides the SPI transport for the MFRC522
package spi

import (
	"fmt"
	"sync"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultFrequency is the SPI clock used when Config.Frequency is zero.
// The MFRC522 accepts up to 10 MHz.
const DefaultFrequency = 1 * physic.MegaHertz

// Config selects the SPI port and chip select line
type Config struct {
	// Port is the periph port name, e.g. "/dev/spidev0.0" or "SPI0.0".
	// Empty opens the first available port.
	Port string
	// ChipSelect optionally names a GPIO driven as chip select, e.g. "GPIO8".
	// Empty leaves chip select to the SPI controller.
	ChipSelect string
	// Frequency is the SPI clock
	Frequency physic.Frequency
}

type txConn interface {
	Tx(w, r []byte) error
}

type outPin interface {
	Out(l gpio.Level) error
}

type closer interface {
	Close() error
}

// Transport implements mfrc522.Transport over an SPI port
type Transport struct {
	conn   txConn
	cs     outPin
	port   closer
	name   string
	mu     sync.Mutex
	closed bool
}

// New opens the SPI port described by cfg
func New(cfg Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	freq := cfg.Frequency
	if freq == 0 {
		freq = DefaultFrequency
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Port, err)
	}

	conn, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect to SPI port %q: %w", cfg.Port, err)
	}

	var cs outPin
	if cfg.ChipSelect != "" {
		pin := gpioreg.ByName(cfg.ChipSelect)
		if pin == nil {
			_ = port.Close()
			return nil, fmt.Errorf("%w: unknown chip select pin %q", mfrc522.ErrInvalidParameter, cfg.ChipSelect)
		}
		cs = pin
	}

	return newTransport(conn, cs, port, portName(cfg.Port, port))
}

func newTransport(conn txConn, cs outPin, port closer, name string) (*Transport, error) {
	t := &Transport{conn: conn, cs: cs, port: port, name: name}
	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			if port != nil {
				_ = port.Close()
			}
			return nil, mfrc522.NewWriteError("chipSelect", name, err)
		}
	}
	return t, nil
}

func portName(requested string, port fmt.Stringer) string {
	if requested != "" {
		return requested
	}
	return port.String()
}

// Tx drives chip select low, exchanges w for r and releases chip select
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return mfrc522.NewTransportError("Tx", t.name, mfrc522.ErrTransportClosed, mfrc522.ErrorTypePermanent)
	}
	if r != nil && len(r) != len(w) {
		return mfrc522.NewTransportError("Tx", t.name,
			fmt.Errorf("%w: read buffer %d bytes, write %d", mfrc522.ErrInvalidParameter, len(r), len(w)),
			mfrc522.ErrorTypePermanent)
	}

	if t.cs != nil {
		if err := t.cs.Out(gpio.Low); err != nil {
			return mfrc522.NewWriteError("chipSelect", t.name, err)
		}
	}

	txErr := t.conn.Tx(w, r)

	if t.cs != nil {
		if err := t.cs.Out(gpio.High); err != nil && txErr == nil {
			return mfrc522.NewWriteError("chipSelect", t.name, err)
		}
	}

	if txErr != nil {
		if r != nil {
			return mfrc522.NewReadError("Tx", t.name, txErr)
		}
		return mfrc522.NewWriteError("Tx", t.name, txErr)
	}
	return nil
}

// Close releases chip select and closes the port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port %s: %w", t.name, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() mfrc522.TransportType {
	return mfrc522.TransportSPI
}

// String returns the port name
func (t *Transport) String() string {
	return t.name
}

// Ensure Transport implements mfrc522.Transport
var _ mfrc522.Transport = (*Transport)(nil)
