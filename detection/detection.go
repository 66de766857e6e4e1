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

// Package detection finds MFRC522 readers attached to the host.
//
// Bus specific detectors register themselves on import:
//
//	import (
//		"github.com/ZaparooProject/go-mfrc522/detection"
//		_ "github.com/ZaparooProject/go-mfrc522/detection/i2c"
//		_ "github.com/ZaparooProject/go-mfrc522/detection/spi"
//	)
//
//	devices, err := detection.DetectAll(ctx, detection.DefaultOptions())
package detection

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no MFRC522 devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timeout")
)

// Mode controls how intrusive detection is allowed to be
type Mode int

const (
	// Passive only lists bus nodes and never talks to a chip
	Passive Mode = iota
	// Safe reads the version register of candidate addresses
	Safe
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Safe:
		return "safe"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Confidence is how sure a detector is that a DeviceInfo is an MFRC522
type Confidence int

const (
	// Low means the bus node exists but nothing was checked
	Low Confidence = iota
	// Medium means the default address answered or was assumed
	Medium
	// High means the chip reported a known version
	High
)

// String returns the confidence name
func (c Confidence) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("confidence(%d)", int(c))
	}
}

// DeviceInfo describes a candidate reader
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string
	Name       string
	Confidence Confidence
}

// Options configures detection
type Options struct {
	// IgnorePaths lists device paths that must not be opened
	IgnorePaths []string
	Mode        Mode
	Timeout     time.Duration
}

// DefaultOptions returns safe probing with a five second timeout
func DefaultOptions() *Options {
	return &Options{
		Mode:    Safe,
		Timeout: 5 * time.Second,
	}
}

// Detector finds readers on one kind of bus
type Detector interface {
	// Transport returns the transport name ("spi", "i2c", ...)
	Transport() string
	// Detect returns the candidates found on this bus
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes d available to DetectAll. A detector registered for
// the same transport replaces the previous one.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors sorted by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()

	detectors := make([]Detector, 0, len(registry))
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Transport() < detectors[j].Transport()
	})
	return detectors
}

// DetectAll runs every registered detector and returns the candidates ordered
// by descending confidence. Detectors that fail or find nothing are skipped.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	return detect(ctx, Detectors(), opts)
}

func detect(ctx context.Context, detectors []Detector, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var devices []DeviceInfo
	for _, d := range detectors {
		if err := ctx.Err(); err != nil {
			if len(devices) > 0 {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrDetectionTimeout, err)
		}

		found, err := d.Detect(ctx, opts)
		if err != nil {
			continue
		}
		for _, info := range found {
			if IsPathIgnored(info.Path, opts.IgnorePaths) {
				continue
			}
			devices = append(devices, info)
		}
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}

// IsPathIgnored checks if a device path should be ignored.
// Supports exact path matching and normalized path comparison.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	normalizedDevice := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}
		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
