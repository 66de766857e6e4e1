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
)

// ReadBlock reads one 16 byte block from the tag.
func (d *Device) ReadBlock(block byte) ([]byte, error) {
	return d.ReadBlockContext(context.Background(), block)
}

// ReadBlockContext reads one 16 byte block from the tag. The context is only
// checked before the read is started.
func (d *Device) ReadBlockContext(ctx context.Context, block byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}

	frame, err := d.appendCRC([]byte{piccRead, block})
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}

	res, err := d.ToCard(CmdTransceive, frame)
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}

	if res.Status != StatusOK || len(res.Data) != BlockSize {
		d.status("Read error")
		return nil, &BlockError{
			Op:     "read",
			Block:  block,
			Status: res.Status,
			Err:    ErrReadFailed,
		}
	}

	debugf("read block %d: % X", block, res.Data)
	return res.Data, nil
}

// WriteBlock writes data to one block of the tag. data is truncated or zero
// padded to 16 bytes.
func (d *Device) WriteBlock(block byte, data []byte) error {
	return d.WriteBlockContext(context.Background(), block, data)
}

// WriteBlockContext writes data to one block of the tag in two phases: the
// WRITE request, then the 16 byte payload. Both must be acknowledged. A
// failure in the second phase leaves the block in an unknown state.
//
// The context is only checked before the first phase.
func (d *Device) WriteBlockContext(ctx context.Context, block byte, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}

	req, err := d.appendCRC([]byte{piccWrite, block})
	if err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	res, err := d.ToCard(CmdTransceive, req)
	if err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	if !acknowledged(res) {
		d.status("Write request failed")
		return &BlockError{
			Op:     "write request",
			Block:  block,
			Status: res.Status,
			Ack:    firstByte(res.Data),
			Err:    ErrWriteRequestFailed,
		}
	}

	payload := make([]byte, BlockSize, BlockSize+2)
	copy(payload, data)
	payload, err = d.appendCRC(payload)
	if err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	res, err = d.ToCard(CmdTransceive, payload)
	if err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	if !acknowledged(res) {
		d.status("Write error")
		return &BlockError{
			Op:     "write",
			Block:  block,
			Status: res.Status,
			Ack:    firstByte(res.Data),
			Err:    ErrWriteFailed,
		}
	}

	d.status("Data written")
	return nil
}

// acknowledged reports whether the tag answered with an ACK.
func acknowledged(res TransceiveResult) bool {
	return res.Status == StatusOK && firstByte(res.Data) == piccAck
}

func firstByte(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
