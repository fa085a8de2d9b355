package db

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ErrNotFound is returned for a game ID the store has never seen.
var ErrNotFound = errors.New("db: game not found")

// GameRecord is the index row written next to every stored log.
type GameRecord struct {
	ID        string
	Name      string
	Seed      uint64
	Winner    string
	Reason    string
	Turns     int
	Events    int
	CreatedAt time.Time
}

// EventStore keeps finished or in-progress game logs in sqlite. Logs and
// unit data are stored gzipped; the games table indexes them.
type EventStore struct {
	DB *sql.DB
	// Now stamps new games; time.Now when nil.
	Now func() time.Time
}

func (s *EventStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		seed INTEGER NOT NULL,
		winner TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		turns INTEGER NOT NULL DEFAULT 0,
		events INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_logs (
		game_id TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
		units BLOB NOT NULL,
		log BLOB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS games_created ON games(created_at)`,
}

// OpenEventStore opens or creates the store at path.
func OpenEventStore(path string) (*EventStore, error) {
	db, err := ConnectSQLite(path, false)
	if err != nil {
		return nil, err
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table: %w", err)
		}
	}
	return &EventStore{DB: db}, nil
}

func (s *EventStore) Close() error { return s.DB.Close() }

// Save writes the session's log under its game ID, replacing any earlier
// copy of the same game.
func (s *EventStore) Save(ctx context.Context, name string, sess *session.Session) error {
	raw, err := sess.MarshalLog()
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}
	logData, err := compress(raw)
	if err != nil {
		return err
	}
	specs, err := json.Marshal(sess.Specs())
	if err != nil {
		return fmt.Errorf("marshal units: %w", err)
	}
	unitData, err := compress(specs)
	if err != nil {
		return err
	}

	g := sess.State()
	id := sess.ID().String()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, name, seed, winner, reason, turns, events, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, winner = excluded.winner, reason = excluded.reason,
		   turns = excluded.turns, events = excluded.events`,
		id, name, int64(g.Seed), g.Winner, g.EndReason, g.Turn, sess.Len(), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert game %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO game_logs (game_id, units, log) VALUES (?, ?, ?)`,
		id, unitData, logData)
	if err != nil {
		return fmt.Errorf("insert log %s: %w", id, err)
	}
	return tx.Commit()
}

// RawLog returns the JSON event log of a game.
func (s *EventStore) RawLog(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.DB.QueryRowContext(ctx, `SELECT log FROM game_logs WHERE game_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select log %s: %w", id, err)
	}
	return decompress(data)
}

// Load rebuilds the session of a stored game.
func (s *EventStore) Load(ctx context.Context, id string) (*session.Session, error) {
	var unitData, logData []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT units, log FROM game_logs WHERE game_id = ?`, id).Scan(&unitData, &logData)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select game %s: %w", id, err)
	}

	raw, err := decompress(unitData)
	if err != nil {
		return nil, err
	}
	var specs []unit.Spec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("decode units %s: %w", id, err)
	}
	if raw, err = decompress(logData); err != nil {
		return nil, err
	}
	events, err := event.UnmarshalLog(raw)
	if err != nil {
		return nil, fmt.Errorf("decode log %s: %w", id, err)
	}
	return session.Restore(specs, events)
}

// Game returns the index row for one game.
func (s *EventStore) Game(ctx context.Context, id string) (GameRecord, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, name, seed, winner, reason, turns, events, created_at FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	return g, err
}

// List returns the most recent games first. A limit of zero or less means
// no limit.
func (s *EventStore) List(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, seed, winner, reason, turns, events, created_at
		 FROM games ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (GameRecord, error) {
	var (
		g       GameRecord
		seed    int64
		created int64
	)
	err := row.Scan(&g.ID, &g.Name, &seed, &g.Winner, &g.Reason, &g.Turns, &g.Events, &created)
	if err != nil {
		return GameRecord{}, err
	}
	g.Seed = uint64(seed)
	g.CreatedAt = time.Unix(created, 0).UTC()
	return g, nil
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(b); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	return out, nil
}
