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

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// sqlUpsertGame inserts a dictionary entry or refreshes its name. An empty
// name never overwrites an existing one.
func sqlUpsertGame(ctx context.Context, db *sql.DB, game *database.Game) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO GameDict (GameID, Name)
		VALUES (?, ?)
		ON CONFLICT(GameID) DO UPDATE SET
			Name = CASE WHEN excluded.Name != '' THEN excluded.Name ELSE Name END;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx, game.GameID, game.Name)
	if err != nil {
		return fmt.Errorf("failed to execute game upsert: %w", err)
	}
	return nil
}

func sqlGetGame(ctx context.Context, db *sql.DB, gameID string) (*database.Game, error) {
	row := db.QueryRowContext(ctx, `
		SELECT GameID, Name FROM GameDict WHERE GameID = ?;
	`, gameID)

	var game database.Game
	err := row.Scan(&game.GameID, &game.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to scan game row: %w", err)
	}
	return &game, nil
}

func sqlGetAllGames(ctx context.Context, db *sql.DB) ([]database.Game, error) {
	list := make([]database.Game, 0)

	q, err := db.PrepareContext(ctx, `
		SELECT GameID, Name FROM GameDict ORDER BY Name ASC, GameID ASC;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare games query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		var row database.Game
		scanErr := rows.Scan(&row.GameID, &row.Name)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating game rows: %w", err)
	}
	return list, nil
}
