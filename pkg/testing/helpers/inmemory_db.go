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

// Package helpers provides shared helpers for package tests.
package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/PlaytimeProject/playtime-core/pkg/database/playdb"
	_ "github.com/mattn/go-sqlite3"
)

// NewInMemoryPlayDB opens a migrated PlayDB backed by a temp file database.
// A file is used instead of :memory: so the database persists across
// connection close and reopen within a test.
func NewInMemoryPlayDB(t *testing.T) (db *playdb.PlayDB, cleanup func()) {
	t.Helper()

	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "playdb_test.db")

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db = &playdb.PlayDB{}
	if err := db.SetSQLForTesting(context.Background(), sqlDB); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up PlayDB for testing: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close PlayDB: %v", err)
		}
	}

	return db, cleanup
}
