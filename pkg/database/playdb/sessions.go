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
	"fmt"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func sqlAddSession(ctx context.Context, db *sql.DB, session *database.PlaySession) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO PlaySessions(
			GameID, StartedAt, EndedAt, Checksum, Source, CreatedAt
		) VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare session insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var checksum, source any
	if session.Checksum != "" {
		checksum = session.Checksum
	}
	if session.Source != "" {
		source = session.Source
	}

	result, err := stmt.ExecContext(ctx,
		session.GameID,
		session.StartedAt.Unix(),
		session.EndedAt.Unix(),
		checksum,
		source,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute session insert: %w", err)
	}

	dbid, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return dbid, nil
}

// sqlGetSessionsIn returns sessions intersecting the half-open range
// [from, to), ordered by start time. An empty gameID matches all games.
func sqlGetSessionsIn(ctx context.Context, db *sql.DB, gameID string, from, to time.Time) ([]database.PlaySession, error) {
	list := make([]database.PlaySession, 0)

	query := `
		SELECT DBID, GameID, StartedAt, EndedAt, Checksum, Source
		FROM PlaySessions
		WHERE StartedAt < ? AND EndedAt > ?
	`
	args := []any{to.Unix(), from.Unix()}
	if gameID != "" {
		query += ` AND GameID = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY StartedAt ASC, DBID ASC;`

	q, err := db.PrepareContext(ctx, query)
	if err != nil {
		return list, fmt.Errorf("failed to prepare sessions query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, args...)
	if err != nil {
		return list, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.PlaySession
		var startedAt, endedAt int64
		var checksum, source sql.NullString
		scanErr := rows.Scan(
			&row.DBID,
			&row.GameID,
			&startedAt,
			&endedAt,
			&checksum,
			&source,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan session row: %w", scanErr)
		}
		row.StartedAt = time.Unix(startedAt, 0).UTC()
		row.EndedAt = time.Unix(endedAt, 0).UTC()
		if checksum.Valid {
			row.Checksum = checksum.String
		}
		if source.Valid {
			row.Source = source.String
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating session rows: %w", err)
	}
	return list, nil
}

func sqlAddCorrection(ctx context.Context, db *sql.DB, correction *database.ManualCorrection) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO Corrections(
			GameID, Day, DeltaSec, Source, CreatedAt
		) VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare correction insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var source any
	if correction.Source != "" {
		source = correction.Source
	}

	result, err := stmt.ExecContext(ctx,
		correction.GameID,
		correction.Day,
		correction.DeltaSec,
		source,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute correction insert: %w", err)
	}

	dbid, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return dbid, nil
}

// sqlGetCorrectionsIn returns corrections for days in the inclusive range
// [fromDay, toDay]. An empty gameID matches all games.
func sqlGetCorrectionsIn(ctx context.Context, db *sql.DB, gameID, fromDay, toDay string) ([]database.ManualCorrection, error) {
	list := make([]database.ManualCorrection, 0)

	query := `
		SELECT DBID, GameID, Day, DeltaSec, Source
		FROM Corrections
		WHERE Day >= ? AND Day <= ?
	`
	args := []any{fromDay, toDay}
	if gameID != "" {
		query += ` AND GameID = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY Day ASC, DBID ASC;`

	q, err := db.PrepareContext(ctx, query)
	if err != nil {
		return list, fmt.Errorf("failed to prepare corrections query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, args...)
	if err != nil {
		return list, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.ManualCorrection
		var source sql.NullString
		scanErr := rows.Scan(
			&row.DBID,
			&row.GameID,
			&row.Day,
			&row.DeltaSec,
			&source,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan correction row: %w", scanErr)
		}
		if source.Valid {
			row.Source = source.String
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating correction rows: %w", err)
	}
	return list, nil
}

func sqlHasDataBefore(ctx context.Context, db *sql.DB, cutoff time.Time, beforeDay string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM PlaySessions WHERE StartedAt < ?
			UNION ALL
			SELECT 1 FROM Corrections WHERE Day < ?
		);
	`, cutoff.Unix(), beforeDay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to scan has-data-before row: %w", err)
	}
	return exists, nil
}

func sqlGameHasLedgerData(ctx context.Context, db *sql.DB, gameID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM PlaySessions WHERE GameID = ?
			UNION ALL
			SELECT 1 FROM Corrections WHERE GameID = ?
		);
	`, gameID, gameID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to scan game ledger data row: %w", err)
	}
	return exists, nil
}

// sqlTotalsByGame sums session durations and correction deltas per game.
// Games known only to the dictionary are included with a zero total.
func sqlTotalsByGame(ctx context.Context, db *sql.DB) ([]database.GameTotal, error) {
	list := make([]database.GameTotal, 0)

	q, err := db.PrepareContext(ctx, `
		SELECT ids.GameID,
			COALESCE((SELECT SUM(EndedAt - StartedAt) FROM PlaySessions p WHERE p.GameID = ids.GameID), 0)
			+ COALESCE((SELECT SUM(DeltaSec) FROM Corrections c WHERE c.GameID = ids.GameID), 0) AS Total
		FROM (
			SELECT GameID FROM GameDict
			UNION
			SELECT GameID FROM PlaySessions
			UNION
			SELECT GameID FROM Corrections
		) ids
		ORDER BY Total DESC, ids.GameID ASC;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare totals query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query totals: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.GameTotal
		var totalSec int64
		scanErr := rows.Scan(&row.GameID, &totalSec)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan totals row: %w", scanErr)
		}
		if totalSec < 0 {
			totalSec = 0
		}
		row.Total = time.Duration(totalSec) * time.Second
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating totals rows: %w", err)
	}
	return list, nil
}

func sqlTotalForGame(ctx context.Context, db *sql.DB, gameID string) (time.Duration, error) {
	var totalSec int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT SUM(EndedAt - StartedAt) FROM PlaySessions WHERE GameID = ?), 0)
			+ COALESCE((SELECT SUM(DeltaSec) FROM Corrections WHERE GameID = ?), 0);
	`, gameID, gameID).Scan(&totalSec)
	if err != nil {
		return 0, fmt.Errorf("failed to scan game total row: %w", err)
	}
	if totalSec < 0 {
		totalSec = 0
	}
	return time.Duration(totalSec) * time.Second, nil
}

func sqlSessionStatsForGame(ctx context.Context, db *sql.DB, gameID string) (int64, *time.Time, error) {
	var sessions int64
	var lastEnded sql.NullInt64
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), MAX(EndedAt) FROM PlaySessions WHERE GameID = ?;
	`, gameID).Scan(&sessions, &lastEnded)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to scan session stats row: %w", err)
	}
	if !lastEnded.Valid {
		return sessions, nil, nil
	}
	t := time.Unix(lastEnded.Int64, 0).UTC()
	return sessions, &t, nil
}
