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

// Command mfrc522text reads or writes the 48 byte text slot of a tag held
// against an MFRC522 reader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-mfrc522/detection/i2c"
	_ "github.com/ZaparooProject/go-mfrc522/detection/spi"
	"github.com/ZaparooProject/go-mfrc522/internal/transport"
	"github.com/ZaparooProject/go-mfrc522/transport/i2c"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"github.com/ZaparooProject/go-mfrc522/transport/uart"
)

type config struct {
	bus        *string
	devicePath *string
	chipSelect *string
	writeText  *string
	retries    *int
	timeout    *time.Duration
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		bus: flag.String("bus", "",
			"Bus the reader is on: spi, i2c or uart. Guessed from -device when empty."),
		devicePath: flag.String("device", "",
			"Device path (e.g., /dev/spidev0.0, /dev/i2c-1:0x28 or /dev/ttyS0). Leave empty for auto-detection."),
		chipSelect: flag.String("cs", "", "GPIO used as SPI chip select (e.g., GPIO8)"),
		writeText:  flag.String("write", "", "Text to write to the tag (if not specified, will only read)"),
		retries:    flag.Int("retries", 3, "Write attempts after the first one fails"),
		timeout:    flag.Duration("timeout", 5*time.Second, "Timeout for detection and chip start up"),
		debug:      flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()

	// Enable debug output if --debug flag is set
	if *cfg.debug {
		mfrc522.SetDebugEnabled(true)
	}

	return cfg
}

// busFromPath guesses the bus from a device path
func busFromPath(path string) string {
	pathLower := strings.ToLower(path)
	switch {
	case strings.Contains(pathLower, "spi"):
		return "spi"
	case strings.Contains(pathLower, "i2c"):
		return "i2c"
	default:
		return "uart"
	}
}

// newTransport creates a new transport for bus and path
func newTransport(bus, path, chipSelect string) (mfrc522.Transport, error) {
	if bus == "" {
		bus = busFromPath(path)
	}

	switch strings.ToLower(bus) {
	case "spi":
		t, err := spi.New(spi.Config{Port: path, ChipSelect: chipSelect})
		if err != nil {
			return nil, fmt.Errorf("failed to create SPI transport: %w", err)
		}
		return t, nil
	case "i2c":
		i2cConfig, err := i2c.ParsePath(path)
		if err != nil {
			return nil, err
		}
		t, err := i2c.New(i2cConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return t, nil
	case "uart":
		if path == "" {
			return nil, errors.New("UART needs a device path")
		}
		t, err := uart.New(uart.Config{Port: path})
		if err != nil {
			return nil, fmt.Errorf("failed to create UART transport: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported bus: %s", bus)
	}
}

// detectTransport opens the most likely reader found by detection
func detectTransport(ctx context.Context, cfg *config) (mfrc522.Transport, error) {
	opts := detection.DefaultOptions()
	opts.Timeout = *cfg.timeout

	devices, err := detection.DetectAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("auto-detection failed: %w", err)
	}

	var errs []error
	for _, d := range devices {
		if *cfg.bus != "" && !strings.EqualFold(*cfg.bus, d.Transport) {
			continue
		}
		_, _ = fmt.Printf("Trying %s (%s, %s confidence)\n", d.Path, d.Transport, d.Confidence)
		t, err := newTransport(d.Transport, d.Path, *cfg.chipSelect)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return nil, errors.Join(errs...)
}

// connect opens the transport and brings the chip up
func connect(ctx context.Context, cfg *config) (*mfrc522.Device, error) {
	var (
		t   mfrc522.Transport
		err error
	)
	if *cfg.devicePath == "" {
		_, _ = fmt.Println("Auto-detecting MFRC522 devices...")
		t, err = detectTransport(ctx, cfg)
	} else {
		_, _ = fmt.Printf("Opening device: %s\n", *cfg.devicePath)
		t, err = newTransport(*cfg.bus, *cfg.devicePath, *cfg.chipSelect)
	}
	if err != nil {
		return nil, err
	}

	device, err := mfrc522.New(t, mfrc522.WithStatusOutput(os.Stdout))
	if err != nil {
		_ = t.Close()
		return nil, err
	}

	// The chip answers garbage until its oscillator is up
	version, err := transport.TimeoutRetry(ctx, *cfg.timeout, 10*time.Millisecond,
		func() (byte, bool, error) {
			v, versionErr := device.Version()
			if errors.Is(versionErr, mfrc522.ErrUnknownVersion) {
				return v, true, versionErr
			}
			retry, versionErr := transport.Classify(versionErr)
			return v, retry, versionErr
		})
	if err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("chip did not answer: %w", err)
	}
	_, _ = fmt.Printf("MFRC522 version: 0x%02X\n", version)

	if err := device.InitContext(ctx); err != nil {
		_ = device.Close()
		return nil, err
	}
	return device, nil
}

func writeText(ctx context.Context, device *mfrc522.Device, text string, retries int) error {
	_, _ = fmt.Print("\n=== Writing to tag ===\n")

	_, err := transport.WithRetry(ctx, transport.RetryConfig{
		Description: "write text",
		MaxRetries:  retries,
		RetryDelay:  200 * time.Millisecond,
		OnRetry: func(attempt int, err error) {
			_, _ = fmt.Printf("Attempt %d failed (%v), retrying...\n", attempt, err)
		},
	}, func() (struct{}, bool, error) {
		retry, err := transport.Classify(device.WriteTextContext(ctx, text))
		return struct{}{}, retry, err
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Println("Write successful!")
	return nil
}

func readText(ctx context.Context, device *mfrc522.Device) error {
	_, _ = fmt.Print("\n=== Reading tag ===\n")
	text, err := device.ReadTextContext(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Printf("Text: %q\n", text)
	return nil
}

func run(ctx context.Context, cfg *config) error {
	device, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to device: %w", err)
	}
	defer func() { _ = device.Close() }()

	if *cfg.writeText != "" {
		if err := writeText(ctx, device, *cfg.writeText, *cfg.retries); err != nil {
			return err
		}
	}
	return readText(ctx, device)
}

func main() {
	cfg := parseFlags()

	if err := run(context.Background(), cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
