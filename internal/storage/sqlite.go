// Package storage provides SQLite-based persistence for savegames and the
// mission log. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	// ErrNotFound is returned when no savegame has the requested name.
	ErrNotFound = errors.New("storage: savegame not found")
	// ErrCorrupt is returned when a savegame fails its integrity checks.
	ErrCorrupt = errors.New("storage: savegame corrupt")
)

// Savegame kinds, matching the savegames/ subdirectories.
const (
	KindCampaign = "campaign"
	KindSkirmish = "skirmish"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Savegame is a stored game. Payload is a JSON document owned by the game
// session; the store only checks that it is intact.
type Savegame struct {
	ID         int64
	Name       string
	Kind       string
	Level      string
	LevelHash  string
	Difficulty string
	Payload    []byte
	CreatedAt  time.Time
}

// SaveInfo describes a savegame without its payload.
type SaveInfo struct {
	Name       string
	Kind       string
	Level      string
	Difficulty string
	Size       int
	CreatedAt  time.Time
}

// MissionRecord is one finished mission.
type MissionRecord struct {
	ID        int64
	Level     string
	Outcome   string // "won", "lost", "quit"
	Duration  int    // seconds
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS savegames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			level TEXT NOT NULL,
			level_hash TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			checksum INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_savegames_kind ON savegames(kind, created_at DESC);

		CREATE TABLE IF NOT EXISTS missions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			outcome TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_missions_level ON missions(level);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores g under g.Name, replacing any savegame with that name.
func (s *Store) SaveGame(g Savegame) error {
	if g.Name == "" {
		return fmt.Errorf("storage: savegame needs a name")
	}
	if g.Kind != KindCampaign && g.Kind != KindSkirmish {
		return fmt.Errorf("storage: unknown savegame kind %q", g.Kind)
	}
	if !gjson.ValidBytes(g.Payload) {
		return fmt.Errorf("storage: savegame %s: payload is not valid JSON", g.Name)
	}
	if g.Level == "" {
		g.Level = gjson.GetBytes(g.Payload, "level").String()
	}

	_, err := s.db.Exec(
		`INSERT INTO savegames (name, kind, level, level_hash, difficulty, payload, checksum, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   kind = excluded.kind, level = excluded.level, level_hash = excluded.level_hash,
		   difficulty = excluded.difficulty, payload = excluded.payload,
		   checksum = excluded.checksum, created_at = excluded.created_at`,
		g.Name, g.Kind, g.Level, g.LevelHash, g.Difficulty, g.Payload, int64(crc32.ChecksumIEEE(g.Payload)),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game %s: %w", g.Name, err)
	}
	return nil
}

// LoadGame returns the savegame with the given name. It fails with
// ErrNotFound or ErrCorrupt.
func (s *Store) LoadGame(name string) (*Savegame, error) {
	var g Savegame
	var checksum int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, name, kind, level, level_hash, difficulty, payload, checksum, created_at
		 FROM savegames WHERE name = ?`,
		name,
	).Scan(&g.ID, &g.Name, &g.Kind, &g.Level, &g.LevelHash, &g.Difficulty, &g.Payload, &checksum, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query savegame: %w", err)
	}

	if uint32(checksum) != crc32.ChecksumIEEE(g.Payload) {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, name)
	}
	if !gjson.ValidBytes(g.Payload) {
		return nil, fmt.Errorf("%w: %s: payload is not valid JSON", ErrCorrupt, name)
	}
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}

// ListGames returns savegames newest first. An empty kind lists all kinds.
func (s *Store) ListGames(kind string) ([]SaveInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, kind, level, difficulty, length(payload), created_at
		 FROM savegames
		 WHERE ? = '' OR kind = ?
		 ORDER BY created_at DESC, id DESC`,
		kind, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query savegames: %w", err)
	}
	defer rows.Close()

	var infos []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var createdAt any
		if err := rows.Scan(&info.Name, &info.Kind, &info.Level, &info.Difficulty, &info.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.CreatedAt = parseTime(createdAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return infos, nil
}

// DeleteGame removes a savegame. Deleting a missing savegame returns
// ErrNotFound.
func (s *Store) DeleteGame(name string) error {
	res, err := s.db.Exec("DELETE FROM savegames WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete savegame: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// RecordMission appends a finished mission to the log.
// Returns the ID of the inserted record.
func (s *Store) RecordMission(level, outcome string, duration time.Duration) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO missions (level, outcome, duration_secs) VALUES (?, ?, ?)",
		level, outcome, int(duration/time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record mission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentMissions returns the latest missions, newest first.
func (s *Store) RecentMissions(limit int) ([]MissionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, duration_secs, created_at
		 FROM missions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query missions: %w", err)
	}
	defer rows.Close()

	var records []MissionRecord
	for rows.Next() {
		var r MissionRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Level, &r.Outcome, &r.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
