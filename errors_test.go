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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "transport timeout", err: ErrTransportTimeout, want: true},
		{name: "transport read", err: ErrTransportRead, want: true},
		{name: "transport write", err: ErrTransportWrite, want: true},
		{name: "echo mismatch", err: ErrEchoMismatch, want: true},
		{name: "block read rejected", err: ErrReadFailed, want: true},
		{name: "write request rejected", err: ErrWriteRequestFailed, want: true},
		{name: "write data rejected", err: ErrWriteFailed, want: true},
		{name: "closed transport", err: ErrTransportClosed, want: false},
		{name: "invalid parameter", err: ErrInvalidParameter, want: false},
		{name: "unknown version", err: ErrUnknownVersion, want: false},
		{name: "unrelated error", err: errors.New("boom"), want: false},
		{
			name: "wrapped timeout",
			err:  fmt.Errorf("read block 4: %w", ErrTransportTimeout),
			want: true,
		},
		{
			name: "transport error marked permanent",
			err:  NewTransportError("Tx", "/dev/spidev0.0", ErrTransportRead, ErrorTypePermanent),
			want: false,
		},
		{
			name: "data too large",
			err:  NewDataTooLargeError("Tx", "/dev/spidev0.0"),
			want: false,
		},
		{
			name: "block error",
			err:  &BlockError{Op: "write", Block: 5, Err: ErrWriteFailed},
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "nil error", err: nil, want: ErrorTypePermanent},
		{name: "timeout sentinel", err: ErrTransportTimeout, want: ErrorTypeTimeout},
		{name: "timeout error", err: NewTimeoutError("Tx", "i2c-1"), want: ErrorTypeTimeout},
		{name: "read error", err: NewReadError("Tx", "i2c-1", errors.New("EIO")), want: ErrorTypeTransient},
		{name: "write sentinel", err: ErrTransportWrite, want: ErrorTypeTransient},
		{name: "block read rejected", err: ErrReadFailed, want: ErrorTypeTransient},
		{name: "closed transport", err: ErrTransportClosed, want: ErrorTypePermanent},
		{name: "unrelated error", err: errors.New("boom"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetErrorType(tt.err))
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("EIO")
	err := NewWriteError("Tx", "/dev/spidev0.0", cause)

	assert.Equal(t, "Tx on /dev/spidev0.0: transport write failed: EIO", err.Error())
	require.ErrorIs(t, err, ErrTransportWrite)
	require.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)

	noPort := NewTransportError("Tx", "", ErrTransportClosed, ErrorTypePermanent)
	assert.Equal(t, "Tx: transport closed", noPort.Error())
	assert.False(t, noPort.Retryable)

	var te *TransportError
	wrapped := fmt.Errorf("read register 0x37: %w", err)
	require.ErrorAs(t, wrapped, &te)
	assert.Equal(t, "/dev/spidev0.0", te.Port)
}

func TestBlockError(t *testing.T) {
	t.Parallel()

	err := &BlockError{Op: "write", Block: 6, Status: StatusOK, Ack: 0x04, Err: ErrWriteRequestFailed}

	assert.Equal(t, "write block 6: write request failed (status ok, ack 0x04)", err.Error())
	require.ErrorIs(t, err, ErrWriteRequestFailed)

	var be *BlockError
	require.ErrorAs(t, fmt.Errorf("write text: %w", err), &be)
	assert.Equal(t, byte(6), be.Block)
}
