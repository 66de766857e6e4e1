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
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EncodeText lays text out in the text slot: its bytes, truncated to
// TextSize, right padded with ASCII spaces. Truncation never splits a UTF-8
// encoded character.
func EncodeText(text string) []byte {
	if len(text) > TextSize {
		cut := TextSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	data := make([]byte, TextSize)
	n := copy(data, text)
	for i := n; i < TextSize; i++ {
		data[i] = ' '
	}
	return data
}

// DecodeText turns the bytes read from the text slot back into text,
// dropping trailing whitespace.
func DecodeText(data []byte) string {
	return strings.TrimRightFunc(string(data), unicode.IsSpace)
}

// WriteText stores text in the tag's text slot (blocks 4, 5 and 6).
func (d *Device) WriteText(text string) error {
	return d.WriteTextContext(context.Background(), text)
}

// WriteTextContext stores text in the tag's text slot. Every block is
// attempted even if an earlier one was rejected; rejected blocks are reported
// together in the returned error. Bus failures and cancellation stop the
// write immediately.
func (d *Device) WriteTextContext(ctx context.Context, text string) error {
	data := EncodeText(text)

	var rejected []error
	for i, block := range TextBlocks {
		chunk := data[i*BlockSize : (i+1)*BlockSize]
		err := d.WriteBlockContext(ctx, block, chunk)
		if err == nil {
			continue
		}
		var blockErr *BlockError
		if !errors.As(err, &blockErr) {
			return errors.Join(append(rejected, fmt.Errorf("write text: %w", err))...)
		}
		rejected = append(rejected, err)
	}

	if len(rejected) > 0 {
		return fmt.Errorf("write text: %d of %d blocks rejected: %w",
			len(rejected), len(TextBlocks), errors.Join(rejected...))
	}
	return nil
}

// ReadText reads the tag's text slot. Blocks that cannot be read are skipped,
// so a partially readable tag yields shorter text rather than an error.
func (d *Device) ReadText() (string, error) {
	return d.ReadTextContext(context.Background())
}

// ReadTextContext reads the tag's text slot. Only bus failures and
// cancellation are returned as errors.
func (d *Device) ReadTextContext(ctx context.Context) (string, error) {
	data := make([]byte, 0, TextSize)
	for _, block := range TextBlocks {
		chunk, err := d.ReadBlockContext(ctx, block)
		if err != nil {
			var blockErr *BlockError
			if errors.As(err, &blockErr) {
				debugf("skipping unreadable block %d", block)
				continue
			}
			return DecodeText(data), fmt.Errorf("read text: %w", err)
		}
		data = append(data, chunk...)
	}
	return DecodeText(data), nil
}
