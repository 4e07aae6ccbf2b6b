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

package helpers

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "playtime"

// DataDir returns the directory used for the database and logs. An explicit
// override takes precedence over the XDG data home.
func DataDir(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.DataHome, appDirName)
}

// ConfigDir returns the directory holding the config file.
func ConfigDir(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}
