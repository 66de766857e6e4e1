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
	"errors"
	"fmt"
)

// Transport errors
var (
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportClosed  = errors.New("transport closed")
	ErrEchoMismatch     = errors.New("register echo mismatch")
)

// Device errors
var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrUnknownVersion   = errors.New("unknown chip version")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDataTooLarge     = errors.New("data too large")
)

// Block errors. These mirror the status lines reported on the status output.
var (
	ErrReadFailed         = errors.New("read error")
	ErrWriteRequestFailed = errors.New("write request failed")
	ErrWriteFailed        = errors.New("write error")
)

// ErrorType categorizes errors for retry decisions
type ErrorType int

const (
	// ErrorTypeTransient indicates a temporary error that may succeed on retry
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates an error that won't be fixed by retrying
	ErrorTypePermanent
	// ErrorTypeTimeout indicates the bus did not answer in time
	ErrorTypeTimeout
)

// TransportError wraps a bus failure with the operation and port it happened on
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a timeout transport error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewReadError creates a retryable bus read error
func NewReadError(op, port string, err error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
}

// NewWriteError creates a retryable bus write error
func NewWriteError(op, port string, err error) *TransportError {
	return NewTransportError(op, port, fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
}

// NewDataTooLargeError creates a data too large error
func NewDataTooLargeError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrDataTooLarge, ErrorTypePermanent)
}

// BlockError reports a tag block operation the chip or the tag rejected
type BlockError struct {
	Err    error
	Op     string
	Status Status
	Ack    byte
	Block  byte
}

// Error implements the error interface
func (e *BlockError) Error() string {
	return fmt.Sprintf("%s block %d: %v (status %s, ack 0x%02X)", e.Op, e.Block, e.Err, e.Status, e.Ack)
}

// Unwrap returns the underlying error
func (e *BlockError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying at a higher level
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrEchoMismatch),
		errors.Is(err, ErrReadFailed),
		errors.Is(err, ErrWriteRequestFailed),
		errors.Is(err, ErrWriteFailed):
		return true
	default:
		return false
	}
}

// GetErrorType returns the error type for retry decisions
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrEchoMismatch),
		errors.Is(err, ErrReadFailed),
		errors.Is(err, ErrWriteRequestFailed),
		errors.Is(err, ErrWriteFailed):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
