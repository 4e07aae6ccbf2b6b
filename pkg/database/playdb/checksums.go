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

package playdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func sqlGetChecksumLink(ctx context.Context, db *sql.DB, checksum string) (*database.ChecksumLink, error) {
	row := db.QueryRowContext(ctx, `
		SELECT Checksum, GameID, Algorithm, CreatedAt, UpdatedAt
		FROM GameChecksums WHERE Checksum = ?;
	`, checksum)

	var link database.ChecksumLink
	var createdAt, updatedAt int64
	err := row.Scan(&link.Checksum, &link.GameID, &link.Algorithm, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to scan checksum link row: %w", err)
	}

	link.CreatedAt = time.Unix(createdAt, 0).UTC()
	link.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &link, nil
}

// sqlPutChecksumLinks upserts all links inside a single transaction so a
// partial batch is never observable.
func sqlPutChecksumLinks(ctx context.Context, db *sql.DB, links []database.ChecksumLink) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checksum link transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to roll back checksum link transaction")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO GameChecksums (Checksum, GameID, Algorithm, CreatedAt, UpdatedAt)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(Checksum) DO UPDATE SET
			GameID = excluded.GameID,
			Algorithm = excluded.Algorithm,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare checksum link upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	now := time.Now().Unix()
	for i := range links {
		link := &links[i]
		algorithm := link.Algorithm
		if algorithm == "" {
			algorithm = database.AlgoSHA256
		}
		_, err = stmt.ExecContext(ctx, link.Checksum, link.GameID, algorithm, now, now)
		if err != nil {
			return fmt.Errorf("failed to execute checksum link upsert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checksum link transaction: %w", err)
	}
	return nil
}

func sqlDeleteChecksumLink(ctx context.Context, db *sql.DB, checksum string) error {
	stmt, err := db.PrepareContext(ctx, `
		DELETE FROM GameChecksums WHERE Checksum = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare checksum link delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx, checksum)
	if err != nil {
		return fmt.Errorf("failed to execute checksum link delete: %w", err)
	}
	return nil
}

func sqlDeleteChecksumLinksForGame(ctx context.Context, db *sql.DB, gameID string) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		DELETE FROM GameChecksums WHERE GameID = ?;
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare game checksum delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	result, err := stmt.ExecContext(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to execute game checksum delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

func sqlGameHasChecksums(ctx context.Context, db *sql.DB, gameID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM GameChecksums WHERE GameID = ?);
	`, gameID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to scan game checksum existence row: %w", err)
	}
	return exists, nil
}

//goland:noinspection SqlWithoutWhere
func sqlResetChecksumLinks(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DELETE FROM GameChecksums;`)
	if err != nil {
		return fmt.Errorf("failed to reset checksum links: %w", err)
	}
	return nil
}

func sqlGetAllChecksumLinks(ctx context.Context, db *sql.DB) ([]database.ChecksumLink, error) {
	list := make([]database.ChecksumLink, 0)

	q, err := db.PrepareContext(ctx, `
		SELECT Checksum, GameID, Algorithm, CreatedAt, UpdatedAt
		FROM GameChecksums
		ORDER BY GameID ASC, Checksum ASC;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare checksum links query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query checksum links: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.ChecksumLink
		var createdAt, updatedAt int64
		scanErr := rows.Scan(&row.Checksum, &row.GameID, &row.Algorithm, &createdAt, &updatedAt)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan checksum link row: %w", scanErr)
		}
		row.CreatedAt = time.Unix(createdAt, 0).UTC()
		row.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating checksum link rows: %w", err)
	}
	return list, nil
}
