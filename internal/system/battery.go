// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPowerSupplyRoot is where Linux exposes batteries.
const DefaultPowerSupplyRoot = "/sys/class/power_supply"

// BatteryState is the charging state of a battery.
type BatteryState string

const (
	BatteryUnknown     BatteryState = "unknown"
	BatteryCharging    BatteryState = "charging"
	BatteryDischarging BatteryState = "discharging"
	BatteryFull        BatteryState = "full"
	BatteryEmpty       BatteryState = "empty"
)

// Battery is one power source.
type Battery struct {
	Name          string       `json:"name"`
	StateOfCharge int          `json:"state_of_charge"`
	State         BatteryState `json:"state"`
}

// SysfsBatteries reads batteries from a power_supply directory.
type SysfsBatteries struct {
	Root string
}

// NewSysfsBatteries returns a reader for DefaultPowerSupplyRoot.
func NewSysfsBatteries() *SysfsBatteries {
	return &SysfsBatteries{Root: DefaultPowerSupplyRoot}
}

// Batteries lists every supply whose type is "Battery", sorted by name.
// A missing root (non-Linux hosts, containers) yields an empty list.
func (s *SysfsBatteries) Batteries(ctx context.Context) ([]Battery, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list power supplies: %w", err)
	}

	var out []Battery
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(s.Root, e.Name())
		if readAttr(dir, "type") != "Battery" {
			continue
		}
		b, err := readBattery(dir)
		if err != nil {
			return nil, err
		}
		b.Name = e.Name()
		out = append(out, b)
	}
	return out, nil
}

func readBattery(dir string) (Battery, error) {
	raw := readAttr(dir, "capacity")
	level, err := strconv.Atoi(raw)
	if err != nil {
		return Battery{}, fmt.Errorf("bad capacity %q in %s: %w", raw, dir, err)
	}
	return Battery{
		StateOfCharge: clampPercent(level),
		State:         parseState(readAttr(dir, "status")),
	}, nil
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func parseState(status string) BatteryState {
	switch strings.ToLower(status) {
	case "charging":
		return BatteryCharging
	case "discharging", "not charging":
		return BatteryDischarging
	case "full":
		return BatteryFull
	case "empty":
		return BatteryEmpty
	default:
		return BatteryUnknown
	}
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
