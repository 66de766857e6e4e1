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
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: strings.Repeat(" ", TextSize)},
		{name: "short", text: "hello", want: "hello" + strings.Repeat(" ", TextSize-5)},
		{name: "exact", text: strings.Repeat("x", TextSize), want: strings.Repeat("x", TextSize)},
		{name: "too long", text: strings.Repeat("y", TextSize+10), want: strings.Repeat("y", TextSize)},
		{
			name: "multibyte character at the boundary",
			text: strings.Repeat("a", TextSize-1) + "éé",
			want: strings.Repeat("a", TextSize-1) + " ",
		},
		{
			name: "multibyte character ending at the boundary",
			text: strings.Repeat("a", TextSize-2) + "éé",
			want: strings.Repeat("a", TextSize-2) + "é",
		},
		{
			name: "four byte character straddling the boundary",
			text: strings.Repeat("a", TextSize-2) + "😀",
			want: strings.Repeat("a", TextSize-2) + "  ",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EncodeText(tt.text)
			require.Len(t, got, TextSize)
			assert.Equal(t, tt.want, string(got))
			assert.True(t, utf8.Valid(got))
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", DecodeText([]byte("hello     ")))
	assert.Equal(t, "  lead", DecodeText([]byte("  lead\t\r\n ")))
	assert.Equal(t, "", DecodeText(nil))
}

func TestDevice_TextRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{name: "short", text: "Hello World", want: "Hello World"},
		{name: "trailing spaces trimmed", text: "padded   ", want: "padded"},
		{name: "spans blocks", text: "The quick brown fox jumps over the lazy dog", want: "The quick brown fox jumps over the lazy dog"},
		{name: "exactly 48", text: strings.Repeat("ab", 24), want: strings.Repeat("ab", 24)},
		{name: "longer than 48", text: strings.Repeat("0123456789", 6), want: strings.Repeat("0123456789", 6)[:TextSize]},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag := testutil.NewVirtualMIFARE1K(nil)
			chip := NewVirtualChip(tag)
			device := newInitializedDevice(t, chip)

			require.NoError(t, device.WriteText(tt.text))

			got, err := device.ReadText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDevice_WriteText_Layout(t *testing.T) {
	t.Parallel()

	tag := testutil.NewVirtualMIFARE1K(nil)
	chip := NewVirtualChip(tag)
	device := newInitializedDevice(t, chip)

	text := "AAAAAAAAAAAAAAAABBBBBBBBBBBBBBBBCC"
	require.NoError(t, device.WriteText(text))

	want := [][]byte{
		[]byte("AAAAAAAAAAAAAAAA"),
		[]byte("BBBBBBBBBBBBBBBB"),
		append([]byte("CC"), bytes.Repeat([]byte(" "), 14)...),
	}
	for i, block := range TextBlocks {
		got, err := tag.ReadBlock(int(block))
		require.NoError(t, err)
		assert.Equal(t, want[i], got, "block %d", block)
	}
}

func TestDevice_WriteText_ReportsRejectedBlocks(t *testing.T) {
	t.Parallel()

	tag := testutil.NewVirtualMIFARE1K(nil)
	chip := NewVirtualChip(tag)
	var out bytes.Buffer
	device := newInitializedDevice(t, chip, WithStatusOutput(&out))
	tag.NakWriteData = true

	err := device.WriteText("nope")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Contains(t, err.Error(), "3 of 3 blocks rejected")
	assert.Equal(t, strings.Repeat("Write error\n", 3), out.String(), "every block is attempted")
}

func TestDevice_WriteText_StopsOnBusError(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(testutil.NewVirtualMIFARE1K(nil))
	device := newInitializedDevice(t, chip)
	chip.TxErr = NewTimeoutError("Tx", "virtual")

	err := device.WriteText("hello")
	require.ErrorIs(t, err, ErrTransportTimeout)
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(err))
	assert.True(t, IsRetryable(err))
}

func TestDevice_ReadText_SkipsUnreadableBlocks(t *testing.T) {
	t.Parallel()

	tag := testutil.NewVirtualMIFARE1K(nil)
	chip := NewVirtualChip(tag)
	var out bytes.Buffer
	device := newInitializedDevice(t, chip, WithStatusOutput(&out))

	require.NoError(t, device.WriteText("AAAAAAAAAAAAAAAABBBBBBBBBBBBBBBBCCCC"))
	out.Reset()
	tag.Unreadable[5] = true

	got, err := device.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAACCCC", got)
	assert.Equal(t, "Read error\n", out.String())
}

func TestDevice_ReadText_NoTag(t *testing.T) {
	t.Parallel()

	tag := testutil.NewVirtualMIFARE1K(nil)
	chip := NewVirtualChip(tag)
	device := newInitializedDevice(t, chip)
	tag.Remove()

	got, err := device.ReadText()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDevice_Text_Cancelled(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(testutil.NewVirtualMIFARE1K(nil))
	device := newInitializedDevice(t, chip)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := device.ReadTextContext(ctx)
	require.ErrorIs(t, err, context.Canceled)

	err = device.WriteTextContext(ctx, "hello")
	require.ErrorIs(t, err, context.Canceled)
}

func TestDevice_TextRoundTrip_TruncatedMultibyte(t *testing.T) {
	t.Parallel()

	chip := NewVirtualChip(testutil.NewVirtualMIFARE1K(nil))
	device := newInitializedDevice(t, chip)

	text := strings.Repeat("a", TextSize-1) + "éé"
	require.NoError(t, device.WriteText(text))

	got, err := device.ReadText()
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", TextSize-1), got)
}
