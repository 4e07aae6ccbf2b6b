// Playtime Core
// Copyright (c) 2026 The Playtime Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playtime Core.
//
// Playtime Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playtime Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playtime Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"time"
)

// Playtime configures play time tracking.
type Playtime struct {
	Retention         *int   `toml:"retention,omitempty"`
	ReportingTimezone string `toml:"reporting_timezone,omitempty"`
}

// PlaytimeRetention returns the number of days to retain play session
// history. Returns 0 if cleanup is disabled, or 365 (1 year) by default.
func (c *Instance) PlaytimeRetention() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Playtime.Retention == nil {
		return 365 // Default: keep 365 days (1 year) of play session history
	}
	return *c.vals.Playtime.Retention
}

// ReportingTimezone returns the fixed timezone used to assign timestamps to
// calendar days. Falls back to UTC when unset or unparsable.
func (c *Instance) ReportingTimezone() *time.Location {
	c.mu.RLock()
	name := c.vals.Playtime.ReportingTimezone
	c.mu.RUnlock()

	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SetReportingTimezone changes the reporting timezone. Existing corrections
// keep the day they were recorded against.
func (c *Instance) SetReportingTimezone(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.ReportingTimezone = name
}
