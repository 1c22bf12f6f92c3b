// internal/database/match.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/halo/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id               TEXT PRIMARY KEY,
	playlist         TEXT NOT NULL DEFAULT '',
	game_mode        TEXT NOT NULL DEFAULT '',
	map_id           TEXT NOT NULL DEFAULT '',
	winning_team     TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	completed_at     TIMESTAMPTZ NOT NULL,
	archived_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS match_players (
	match_id     TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
	player_id    BIGINT NOT NULL,
	gamertag     TEXT NOT NULL DEFAULT '',
	team         TEXT NOT NULL DEFAULT '',
	kills        INTEGER NOT NULL DEFAULT 0,
	deaths       INTEGER NOT NULL DEFAULT 0,
	assists      INTEGER NOT NULL DEFAULT 0,
	score        INTEGER NOT NULL DEFAULT 0,
	won          BOOLEAN NOT NULL DEFAULT FALSE,
	xp_earned    INTEGER NOT NULL DEFAULT 0,
	medals       JSONB NOT NULL DEFAULT '[]',
	weapon_kills JSONB NOT NULL DEFAULT '{}',
	PRIMARY KEY (match_id, player_id)
);

CREATE INDEX IF NOT EXISTS match_players_player_idx ON match_players (player_id);
`

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// MatchArchive persists completed matches for long term history.
type MatchArchive struct {
	db TxBeginner
}

func NewMatchArchive(db TxBeginner) *MatchArchive {
	return &MatchArchive{db: db}
}

// Migrate creates the archive tables if they are missing.
func (a *MatchArchive) Migrate(ctx context.Context) error {
	return pgx.BeginTxFunc(ctx, a.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
}

// ArchiveMatches writes a batch of matches in one transaction. Rows are
// upserted, so a match delivered twice leaves a single copy.
func (a *MatchArchive) ArchiveMatches(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, a.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, m := range matches {
			if err := insertMatchTx(ctx, tx, m); err != nil {
				return fmt.Errorf("archive match %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

func insertMatchTx(ctx context.Context, tx pgx.Tx, m models.Match) error {
	completed := m.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}

	upsertMatchQ := `
		INSERT INTO matches (id, playlist, game_mode, map_id, winning_team, duration_seconds, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET playlist = EXCLUDED.playlist,
			game_mode = EXCLUDED.game_mode,
			map_id = EXCLUDED.map_id,
			winning_team = EXCLUDED.winning_team,
			duration_seconds = EXCLUDED.duration_seconds,
			completed_at = EXCLUDED.completed_at
	`
	if _, err := tx.Exec(ctx, upsertMatchQ,
		m.ID, m.Playlist, m.GameMode, m.MapID, m.WinningTeam, m.DurationSeconds, completed,
	); err != nil {
		return err
	}

	upsertPlayerQ := `
		INSERT INTO match_players (
			match_id, player_id, gamertag, team, kills, deaths, assists, score, won, xp_earned, medals, weapon_kills
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (match_id, player_id)
		DO UPDATE SET gamertag = EXCLUDED.gamertag,
			team = EXCLUDED.team,
			kills = EXCLUDED.kills,
			deaths = EXCLUDED.deaths,
			assists = EXCLUDED.assists,
			score = EXCLUDED.score,
			won = EXCLUDED.won,
			xp_earned = EXCLUDED.xp_earned,
			medals = EXCLUDED.medals,
			weapon_kills = EXCLUDED.weapon_kills
	`
	for _, r := range m.Participants {
		medals := r.Medals
		if medals == nil {
			medals = []string{}
		}
		medalsJSON, err := json.Marshal(medals)
		if err != nil {
			return err
		}
		weaponKills, err := jsonObject(r.WeaponKills)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsertPlayerQ,
			m.ID, r.PlayerID, r.Gamertag, r.Team, r.Kills, r.Deaths, r.Assists, r.Score,
			m.IsWin(r), r.XPEarned, medalsJSON, weaponKills,
		); err != nil {
			return err
		}
	}
	return nil
}

// jsonObject marshals a map, writing {} rather than null for nil maps.
func jsonObject(v map[string]int) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}
