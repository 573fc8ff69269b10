// Package journal keeps a local SQLite record of missions started and flags submitted
// from this client.
package journal

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Mission is a container started for a challenge.
type Mission struct {
	ID            string
	ChallengeID   string
	ChallengeName string
	ContainerID   string
	Port          int
	URL           string
	StartedAt     time.Time
	StoppedAt     time.Time // zero while active
	StopReason    string
}

// Active reports whether the mission has not been stopped.
func (m Mission) Active() bool { return m.StoppedAt.IsZero() }

// Submission is one flag attempt. The flag itself is not stored.
type Submission struct {
	ID          string
	ChallengeID string
	Correct     bool
	Message     string
	SubmittedAt time.Time
}

// EntryKind tags History entries.
type EntryKind string

const (
	EntryMissionStarted EntryKind = "mission_started"
	EntryMissionStopped EntryKind = "mission_stopped"
	EntrySubmission     EntryKind = "submission"
)

// Entry is one line of the journal history.
type Entry struct {
	Kind        EntryKind
	ID          string
	ChallengeID string
	ContainerID string
	Correct     bool
	Detail      string
	At          time.Time
}

// Store is the SQLite-backed journal.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens (creating if needed) the journal at dbPath. Use ":memory:" for a
// throwaway journal.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageError(err, "could not open journal database")
	}
	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, storageError(err, "failed to initialize journal schema")
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		challenge_id TEXT NOT NULL,
		challenge_name TEXT NOT NULL DEFAULT '',
		container_id TEXT NOT NULL,
		port INTEGER NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		stopped_at INTEGER,
		stop_reason TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_missions_container ON missions(container_id);
	CREATE INDEX IF NOT EXISTS idx_missions_started ON missions(started_at);
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		challenge_id TEXT NOT NULL,
		correct INTEGER NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		submitted_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_challenge ON submissions(challenge_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordMission stores a newly started mission and returns it with ID and StartedAt set.
func (s *Store) RecordMission(ctx context.Context, m Mission) (Mission, error) {
	if m.ContainerID == "" {
		return Mission{}, ErrContainerIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.NewString()
	if m.StartedAt.IsZero() {
		m.StartedAt = s.now()
	}
	m.StoppedAt = time.Time{}
	m.StopReason = ""

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (id, challenge_id, challenge_name, container_id, port, url, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChallengeID, m.ChallengeName, m.ContainerID, m.Port, m.URL, m.StartedAt.UnixMilli(),
	)
	if err != nil {
		return Mission{}, storageError(err, "failed to record mission")
	}
	return m, nil
}

// RecordSubmission stores a flag verdict.
func (s *Store) RecordSubmission(ctx context.Context, sub Submission) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = uuid.NewString()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, challenge_id, correct, message, submitted_at) VALUES (?, ?, ?, ?, ?)",
		sub.ID, sub.ChallengeID, sub.Correct, sub.Message, sub.SubmittedAt.UnixMilli(),
	)
	if err != nil {
		return Submission{}, storageError(err, "failed to record submission")
	}
	return sub, nil
}

// ActiveMissions lists missions not yet stopped, oldest first.
func (s *Store) ActiveMissions(ctx context.Context) ([]Mission, error) {
	return s.queryMissions(ctx, "WHERE stopped_at IS NULL ORDER BY started_at, id")
}

// ExpiredMissions lists active missions started at or before cutoff.
func (s *Store) ExpiredMissions(ctx context.Context, cutoff time.Time) ([]Mission, error) {
	return s.queryMissions(ctx, "WHERE stopped_at IS NULL AND started_at <= ? ORDER BY started_at, id", cutoff.UnixMilli())
}

// ActiveMission returns the most recent active mission for a challenge.
func (s *Store) ActiveMission(ctx context.Context, challengeID string) (Mission, error) {
	ms, err := s.queryMissions(ctx,
		"WHERE stopped_at IS NULL AND challenge_id = ? ORDER BY started_at DESC, id LIMIT 1", challengeID)
	if err != nil {
		return Mission{}, err
	}
	if len(ms) == 0 {
		return Mission{}, ErrMissionNotFound
	}
	return ms[0], nil
}

// MarkStopped closes the active mission for containerID.
func (s *Store) MarkStopped(ctx context.Context, containerID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE missions SET stopped_at = ?, stop_reason = ? WHERE container_id = ? AND stopped_at IS NULL",
		s.now().UnixMilli(), reason, containerID,
	)
	if err != nil {
		return storageError(err, "failed to mark mission stopped")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError(err, "failed to mark mission stopped")
	}
	if n == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// History returns the newest journal entries first. A limit <= 0 returns everything.
func (s *Store) History(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
	SELECT kind, id, challenge_id, container_id, correct, detail, at FROM (
		SELECT 'mission_started' AS kind, id, challenge_id, container_id, 0 AS correct, url AS detail, started_at AS at FROM missions
		UNION ALL
		SELECT 'mission_stopped', id, challenge_id, container_id, 0, stop_reason, stopped_at FROM missions WHERE stopped_at IS NOT NULL
		UNION ALL
		SELECT 'submission', id, challenge_id, '', correct, message, submitted_at FROM submissions
	) ORDER BY at DESC, kind DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query journal history")
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var at int64
		if err := rows.Scan(&kind, &e.ID, &e.ChallengeID, &e.ContainerID, &e.Correct, &e.Detail, &at); err != nil {
			return nil, storageError(err, "failed to scan journal history")
		}
		e.Kind = EntryKind(kind)
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate journal history")
	}
	return out, nil
}

func (s *Store) queryMissions(ctx context.Context, where string, args ...any) ([]Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, challenge_id, challenge_name, container_id, port, url, started_at, stopped_at, stop_reason FROM missions "+where,
		args...,
	)
	if err != nil {
		return nil, storageError(err, "failed to query missions")
	}
	defer func() { _ = rows.Close() }()

	var out []Mission
	for rows.Next() {
		var m Mission
		var started int64
		var stopped sql.NullInt64
		if err := rows.Scan(&m.ID, &m.ChallengeID, &m.ChallengeName, &m.ContainerID, &m.Port, &m.URL, &started, &stopped, &m.StopReason); err != nil {
			return nil, storageError(err, "failed to scan mission row")
		}
		m.StartedAt = time.UnixMilli(started)
		if stopped.Valid {
			m.StoppedAt = time.UnixMilli(stopped.Int64)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate mission rows")
	}
	return out, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
