// Package sqlite is a reference Store implementation backed by
// modernc.org/sqlite, a pure-Go SQLite driver (sql.Open("sqlite", dbPath)).
// It is not meant as the persistence layer of record — it exists so tests
// and a seed CLI can exercise a real Store end to end.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/airwaves/channelcast/internal/encoderplan"
	"github.com/airwaves/channelcast/internal/model"
	"github.com/airwaves/channelcast/internal/store"
)

// Store wraps a *sql.DB holding channels/lineups/filler collections/settings.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open channelcast store: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			id TEXT PRIMARY KEY,
			number INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			start_time_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			channel_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lineup_items (
			channel_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			item_json TEXT NOT NULL,
			PRIMARY KEY (channel_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS ffmpeg_settings (
			channel_id TEXT PRIMARY KEY,
			settings_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS programs (
			key TEXT PRIMARY KEY,
			program_json TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) GetChannelByID(ctx context.Context, id string) (model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `SELECT channel_json FROM channels WHERE id = ?`, id)
	return scanChannel(row)
}

func (s *Store) GetChannelByNumber(ctx context.Context, number int) (model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `SELECT channel_json FROM channels WHERE number = ?`, number)
	return scanChannel(row)
}

func scanChannel(row *sql.Row) (model.Channel, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return model.Channel{}, store.ErrChannelNotFound
		}
		return model.Channel{}, fmt.Errorf("scan channel: %w", err)
	}
	var ch model.Channel
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return model.Channel{}, fmt.Errorf("decode channel: %w", err)
	}
	return ch, nil
}

func (s *Store) LoadLineup(ctx context.Context, channelID string) ([]model.LineupItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_json FROM lineup_items WHERE channel_id = ? ORDER BY position ASC`, channelID)
	if err != nil {
		return nil, fmt.Errorf("load lineup: %w", err)
	}
	defer rows.Close()

	var items []model.LineupItem
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan lineup item: %w", err)
		}
		var it model.LineupItem
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, fmt.Errorf("decode lineup item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) LoadChannelAndLineup(ctx context.Context, channelID string) (model.Channel, []model.LineupItem, error) {
	ch, err := s.GetChannelByID(ctx, channelID)
	if err != nil {
		return model.Channel{}, nil, err
	}
	items, err := s.LoadLineup(ctx, channelID)
	if err != nil {
		return model.Channel{}, nil, err
	}
	return ch, items, nil
}

func (s *Store) FFmpegSettings(ctx context.Context, channelID string) (encoderplan.Settings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT settings_json FROM ffmpeg_settings WHERE channel_id = ?`, channelID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return encoderplan.Settings{}, nil
		}
		return encoderplan.Settings{}, fmt.Errorf("scan ffmpeg settings: %w", err)
	}
	var settings encoderplan.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return encoderplan.Settings{}, fmt.Errorf("decode ffmpeg settings: %w", err)
	}
	return settings, nil
}

// PutChannel upserts a channel row. Write-side helper for seeding; outside
// the core's own read-only surface.
func (s *Store) PutChannel(ctx context.Context, ch model.Channel) error {
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode channel: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO channels (id, number, name, start_time_ms, duration_ms, channel_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET number=excluded.number, name=excluded.name,
			start_time_ms=excluded.start_time_ms, duration_ms=excluded.duration_ms, channel_json=excluded.channel_json`,
		ch.ID, ch.Number, ch.Name, ch.StartTimeMs, ch.DurationMs, string(raw))
	if err != nil {
		return fmt.Errorf("put channel: %w", err)
	}
	return nil
}

// PutLineup replaces the full lineup for a channel.
func (s *Store) PutLineup(ctx context.Context, channelID string, items []model.LineupItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put lineup: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lineup_items WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("clear lineup: %w", err)
	}
	for i, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode lineup item: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO lineup_items (channel_id, position, item_json) VALUES (?, ?, ?)`, channelID, i, string(raw)); err != nil {
			return fmt.Errorf("insert lineup item: %w", err)
		}
	}
	return tx.Commit()
}

// PutFFmpegSettings stores per-channel encoder settings.
func (s *Store) PutFFmpegSettings(ctx context.Context, channelID string, settings encoderplan.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode ffmpeg settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO ffmpeg_settings (channel_id, settings_json) VALUES (?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET settings_json=excluded.settings_json`, channelID, string(raw))
	if err != nil {
		return fmt.Errorf("put ffmpeg settings: %w", err)
	}
	return nil
}

// PutProgram upserts a program row, keyed by its (sourceType, externalSourceId,
// externalKey) identity tuple. Write-side helper for seeding, outside the
// core's own read-only surface.
func (s *Store) PutProgram(ctx context.Context, p model.Program) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO programs (key, program_json) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET program_json=excluded.program_json`, p.Key(), string(raw))
	if err != nil {
		return fmt.Errorf("put program: %w", err)
	}
	return nil
}

// ListPrograms returns every known Program, for consumers outside the
// core's read path (e.g. the optional VODFS library mount).
func (s *Store) ListPrograms(ctx context.Context) ([]model.Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT program_json FROM programs`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []model.Program
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		var p model.Program
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

var _ store.Store = (*Store)(nil)
