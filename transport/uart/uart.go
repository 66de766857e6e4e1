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

// Package uart provides the UART transport for the MFRC522
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the MFRC522 UART rate after reset
	DefaultBaudRate = 9600
	// DefaultTimeout bounds the wait for each byte the chip sends back
	DefaultTimeout = 50 * time.Millisecond

	uartReadFlag = 0x80
)

// Config selects the serial port
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
}

type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Transport implements mfrc522.Transport over the MFRC522 UART host interface.
//
// A register write sends [reg, value] and the chip echoes the address byte.
// A register read sends [0x80|reg] and the chip answers with the value.
type Transport struct {
	port     port
	portName string
	mu       sync.Mutex
	closed   bool
}

// New opens the serial port described by cfg
func New(cfg Config) (*Transport, error) {
	baud := cfg.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}

	t, err := newTransport(p, cfg.Port, timeout)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return t, nil
}

func newTransport(p port, portName string, timeout time.Duration) (*Transport, error) {
	if err := p.SetReadTimeout(timeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	return &Transport{port: p, portName: portName}, nil
}

// Tx performs one register access
func (t *Transport) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return mfrc522.NewTransportError("Tx", t.portName, mfrc522.ErrTransportClosed, mfrc522.ErrorTypePermanent)
	}
	if len(w) != 2 || (r != nil && len(r) != 2) {
		return mfrc522.NewDataTooLargeError("Tx", t.portName)
	}

	if err := t.port.ResetInputBuffer(); err != nil {
		return mfrc522.NewReadError("resetInput", t.portName, err)
	}

	reg, read := mfrc522.DecodeAddress(w[0])
	if read {
		v, err := t.exchange([]byte{uartReadFlag | byte(reg)})
		if err != nil {
			return err
		}
		if r != nil {
			r[0], r[1] = 0, v
		}
		return nil
	}

	echo, err := t.exchange([]byte{byte(reg), w[1]})
	if err != nil {
		return err
	}
	if echo != byte(reg) {
		return mfrc522.NewTransportError("Tx", t.portName,
			fmt.Errorf("%w: sent 0x%02X, got 0x%02X", mfrc522.ErrEchoMismatch, byte(reg), echo),
			mfrc522.ErrorTypeTransient)
	}
	return nil
}

// exchange writes out and reads back the single byte the chip answers with
func (t *Transport) exchange(out []byte) (byte, error) {
	if _, err := t.port.Write(out); err != nil {
		return 0, mfrc522.NewWriteError("Tx", t.portName, err)
	}

	var in [1]byte
	n, err := t.port.Read(in[:])
	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return 0, mfrc522.NewReadError("Tx", t.portName, err)
	case n == 0:
		return 0, mfrc522.NewTimeoutError("Tx", t.portName)
	}
	return in[0], nil
}

// Close closes the serial port
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
		return fmt.Errorf("failed to close serial port %s: %w", t.portName, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() mfrc522.TransportType {
	return mfrc522.TransportUART
}

// Ensure Transport implements mfrc522.Transport
var _ mfrc522.Transport = (*Transport)(nil)
