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

// Package registry resolves content checksums to stable logical game
// identities. A checksum maps to at most one game at a time; many checksums
// may map to the same game, which is how executable updates keep their
// history.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Hex digest of md5 (32) through sha512 (128), lowercased before matching.
var checksumRe = regexp.MustCompile(`^[0-9a-f]{32,128}$`)

// Registry is an explicit handle over the checksum table, passed into every
// service call rather than held as package state. The mutex serializes
// writers to the table; resolve-or-allocate must be atomic.
type Registry struct {
	db database.PlaytimeDBI
	mu syncutil.RWMutex
}

func NewRegistry(db database.PlaytimeDBI) *Registry {
	return &Registry{db: db}
}

// NormalizeChecksum lowercases a hex checksum and validates its shape.
func NormalizeChecksum(checksum string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(checksum))
	if !checksumRe.MatchString(normalized) {
		return "", fmt.Errorf("%w: checksum %q is not a hex digest", database.ErrInvalidIdentity, checksum)
	}
	return normalized, nil
}

// ValidateGameID rejects empty or whitespace-containing identifiers.
func ValidateGameID(gameID string) error {
	if gameID == "" || strings.TrimSpace(gameID) != gameID || strings.ContainsAny(gameID, " \t\n\r") {
		return fmt.Errorf("%w: game id %q", database.ErrInvalidIdentity, gameID)
	}
	return nil
}

func validAlgorithm(algorithm string) string {
	switch algorithm {
	case database.AlgoMD5:
		return database.AlgoMD5
	default:
		return database.AlgoSHA256
	}
}

// Resolve returns the game linked to a checksum, allocating and linking a
// new game id if the checksum is unseen. First write wins: once linked, the
// same checksum always resolves to the same game until explicitly relinked.
func (r *Registry) Resolve(checksum string) (gameID string, created bool, err error) {
	normalized, err := NormalizeChecksum(checksum)
	if err != nil {
		return "", false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, err := r.db.GetChecksumLink(normalized)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up checksum: %w", err)
	}
	if link != nil {
		return link.GameID, false, nil
	}

	gameID = uuid.NewString()
	err = r.db.PutChecksumLink(&database.ChecksumLink{
		Checksum:  normalized,
		GameID:    gameID,
		Algorithm: database.AlgoSHA256,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to link new game id: %w", err)
	}

	log.Info().
		Str("checksum", normalized).
		Str("game_id", gameID).
		Msg("allocated game id for unseen checksum")

	return gameID, true, nil
}

// Link forces checksum -> gameID, overwriting any prior mapping for that
// checksum. Idempotent.
func (r *Registry) Link(checksum, gameID, algorithm string) error {
	normalized, err := NormalizeChecksum(checksum)
	if err != nil {
		return err
	}
	if err := ValidateGameID(gameID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.db.PutChecksumLink(&database.ChecksumLink{
		Checksum:  normalized,
		GameID:    gameID,
		Algorithm: validAlgorithm(algorithm),
	})
	if err != nil {
		return fmt.Errorf("failed to link checksum: %w", err)
	}
	return nil
}

// LinkBulk applies every pair atomically as a batch. All pairs are
// validated before anything is written; one malformed pair leaves every
// mapping untouched.
func (r *Registry) LinkBulk(links []database.ChecksumLink) error {
	normalized := make([]database.ChecksumLink, len(links))
	for i := range links {
		cs, err := NormalizeChecksum(links[i].Checksum)
		if err != nil {
			return err
		}
		if err := ValidateGameID(links[i].GameID); err != nil {
			return err
		}
		normalized[i] = database.ChecksumLink{
			Checksum:  cs,
			GameID:    links[i].GameID,
			Algorithm: validAlgorithm(links[i].Algorithm),
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.PutChecksumLinks(normalized); err != nil {
		return fmt.Errorf("failed to link checksum batch: %w", err)
	}
	return nil
}

// Unlink removes one mapping. No-op if the checksum is unmapped.
func (r *Registry) Unlink(checksum string) error {
	normalized, err := NormalizeChecksum(checksum)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.DeleteChecksumLink(normalized); err != nil {
		return fmt.Errorf("failed to unlink checksum: %w", err)
	}
	return nil
}

// UnlinkAllFor removes every checksum mapped to a game. Session history is
// untouched and remains queryable by game id.
func (r *Registry) UnlinkAllFor(gameID string) (int64, error) {
	if err := ValidateGameID(gameID); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed, err := r.db.DeleteChecksumLinksForGame(gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink game checksums: %w", err)
	}
	return removed, nil
}

// Reset removes all mappings. Destructive; ledger data is untouched so
// orphaned history stays queryable by game id.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.ResetChecksumLinks(); err != nil {
		return fmt.Errorf("failed to reset checksum registry: %w", err)
	}
	log.Info().Msg("checksum registry reset")
	return nil
}

// All returns every current mapping.
func (r *Registry) All() ([]database.ChecksumLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links, err := r.db.GetAllChecksumLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list checksum links: %w", err)
	}
	return links, nil
}

// HasGame reports whether any checksum currently maps to the game.
func (r *Registry) HasGame(gameID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	has, err := r.db.GameHasChecksums(gameID)
	if err != nil {
		return false, fmt.Errorf("failed to check game checksums: %w", err)
	}
	return has, nil
}
