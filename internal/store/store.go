package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/veoprompt/internal"
)

// ErrNotFound is returned when a generation id is unknown.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		scene_json TEXT NOT NULL,
		primary_text TEXT NOT NULL,
		secondary_text TEXT NOT NULL DEFAULT '',
		backend TEXT,
		model TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- translation_memory caches output per (paragraph, dialogue, negative, translator)
	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		primary_text TEXT NOT NULL,
		dialogue TEXT NOT NULL,
		negative TEXT NOT NULL,
		secondary_text TEXT NOT NULL,
		service_used TEXT NOT NULL DEFAULT '',
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(primary_text, dialogue, negative, service_used)
	);

	CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(primary_text, dialogue, negative, service_used);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveGeneration persists g. An empty ID is filled with a new UUID and a zero
// Timestamp with the current time; the stored ID is returned.
func (s *Store) SaveGeneration(ctx context.Context, g internal.Generation) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Timestamp.IsZero() {
		g.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (id, scene_json, primary_text, secondary_text, backend, model, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.SceneJSON, g.Primary, g.Secondary, g.Backend, g.Model, g.Timestamp)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

func (s *Store) GetGeneration(ctx context.Context, id string) (*internal.Generation, error) {
	var g internal.Generation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, scene_json, primary_text, secondary_text, backend, model, created_at FROM generations WHERE id = ?`,
		id).Scan(&g.ID, &g.SceneJSON, &g.Primary, &g.Secondary, &g.Backend, &g.Model, &g.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("generation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGenerations returns the most recent generations first. limit <= 0
// returns everything.
func (s *Store) ListGenerations(ctx context.Context, limit int) ([]internal.Generation, error) {
	query := `SELECT id, scene_json, primary_text, secondary_text, backend, model, created_at FROM generations ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.Generation
	for rows.Next() {
		var g internal.Generation
		if err := rows.Scan(&g.ID, &g.SceneJSON, &g.Primary, &g.Secondary, &g.Backend, &g.Model, &g.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, g)
	}

	return results, rows.Err()
}

func (s *Store) DeleteGeneration(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM generations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("generation %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearGenerations removes all history entries.
func (s *Store) ClearGenerations(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM generations`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetCachedTranslation looks up a previous translation of the same paragraph,
// dialogue and negative list made by service. Invalidated entries are misses.
func (s *Store) GetCachedTranslation(ctx context.Context, primary, dialogue, negative, service string) (string, bool, error) {
	p, d, n := normalizeText(primary), normalizeText(dialogue), normalizeText(negative)

	var secondary string
	var invalidated bool
	err := s.db.QueryRowContext(ctx,
		`SELECT secondary_text, invalidated FROM translation_memory WHERE primary_text = ? AND dialogue = ? AND negative = ? AND service_used = ?`,
		p, d, n, service).Scan(&secondary, &invalidated)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE primary_text = ? AND dialogue = ? AND negative = ? AND service_used = ?`,
		time.Now(), p, d, n, service)

	return secondary, true, err
}

func (s *Store) SaveToMemory(ctx context.Context, primary, dialogue, negative, secondary, serviceUsed string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_memory (id, primary_text, dialogue, negative, secondary_text, service_used, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		uuid.NewString(), normalizeText(primary), normalizeText(dialogue), normalizeText(negative), secondary, serviceUsed, now, now)
	return err
}

// MemoryEntry is a row from the translation_memory table.
type MemoryEntry struct {
	ID          string
	Primary     string
	Dialogue    string
	Negative    string
	Secondary   string
	ServiceUsed string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats summarises history and translation memory usage.
type CacheStats struct {
	Generations    int
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// ClearMemory removes all translation memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all translation memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, primary_text, dialogue, negative, secondary_text, service_used, usage_count, invalidated, last_used FROM translation_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.Primary, &e.Dialogue, &e.Negative, &e.Secondary, &e.ServiceUsed, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for history and translation memory.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&stats.Generations); err != nil {
		return nil, err
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
