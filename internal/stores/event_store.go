package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"event-analytics/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// EventFilter narrows a query. Zero values mean "no constraint".
type EventFilter struct {
	UserID         string
	OrganizationID string
	Since          time.Time // lower bound on received_at, inclusive
}

// EventStore is the durable append-only event log, keyed by arrival order.
// Events are never updated or deleted through this interface.
//
//go:generate mockgen -source=event_store.go -destination=./mocks/event_store_mock.go -package=mocks
type EventStore interface {
	// Append persists one event. It assigns the event's ReceivedAt, which is
	// monotonically non-decreasing in insertion order and never mutated after.
	Append(ctx context.Context, event *models.Event) error

	// QueryAll returns every stored event ordered by arrival time, newest first.
	QueryAll(ctx context.Context) ([]*models.Event, error)

	// Query returns events matching the filter, ordered by arrival time, newest first.
	Query(ctx context.Context, filter EventFilter) ([]*models.Event, error)

	// Count returns the total number of stored events.
	Count(ctx context.Context) (int64, error)

	// CountByTypeInRange returns per-type counts for events whose arrival time
	// falls in [start, end). The GROUP BY runs inside the store.
	CountByTypeInRange(ctx context.Context, start, end time.Time, filter EventFilter) (map[models.EventType]int64, error)

	Close() error
}

type sqliteEventStore struct {
	writeDB *sql.DB
	readDB  *sql.DB

	// Serializes appends so received_at stays monotonically non-decreasing
	// even if the wall clock steps backwards.
	mu           sync.Mutex
	lastReceived time.Time

	now func() time.Time
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id    TEXT    NOT NULL UNIQUE,
	event_type  TEXT    NOT NULL,
	user_id     TEXT    NOT NULL,
	org_id      TEXT    NOT NULL DEFAULT '',
	event_time  INTEGER NOT NULL,
	received_at INTEGER NOT NULL,
	metadata    TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_received_at ON events(received_at);
CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id);
CREATE INDEX IF NOT EXISTS idx_events_org ON events(org_id);
`

// NewSQLiteEventStore opens (and bootstraps) the event log at dbPath.
// Writes go through a single connection in WAL mode; reads use a small pool
// so a broadcast recompute never blocks behind an in-flight append.
func NewSQLiteEventStore(dbPath string) (EventStore, error) {
	writeDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)

	if _, err := writeDB.Exec(schemaSQL); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to bootstrap event schema: %w", err)
	}

	readDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open read connection: %w", err)
	}
	readDB.SetMaxOpenConns(4)
	readDB.SetMaxIdleConns(4)
	readDB.SetConnMaxLifetime(5 * time.Minute)

	return &sqliteEventStore{
		writeDB: writeDB,
		readDB:  readDB,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *sqliteEventStore) Append(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	receivedAt := s.now()
	if receivedAt.Before(s.lastReceived) {
		receivedAt = s.lastReceived
	}

	var metadataJSON sql.NullString
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.writeDB.ExecContext(ctx,
		`INSERT INTO events (event_id, event_type, user_id, org_id, event_time, received_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		string(event.EventType),
		event.UserID,
		event.OrganizationID,
		event.Timestamp.UTC().UnixNano(),
		receivedAt.UnixNano(),
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	s.lastReceived = receivedAt
	event.ReceivedAt = receivedAt
	return nil
}

func (s *sqliteEventStore) QueryAll(ctx context.Context) ([]*models.Event, error) {
	return s.Query(ctx, EventFilter{})
}

func (s *sqliteEventStore) Query(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	query := `SELECT event_id, event_type, user_id, org_id, event_time, received_at, metadata FROM events`
	where, args := buildWhere(filter)
	query += where + ` ORDER BY received_at DESC, seq DESC`

	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (s *sqliteEventStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.readDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (s *sqliteEventStore) CountByTypeInRange(ctx context.Context, start, end time.Time, filter EventFilter) (map[models.EventType]int64, error) {
	query := `SELECT event_type, COUNT(*) FROM events`
	where, args := buildWhere(filter)
	if where == "" {
		where = ` WHERE received_at >= ? AND received_at < ?`
	} else {
		where += ` AND received_at >= ? AND received_at < ?`
	}
	args = append(args, start.UTC().UnixNano(), end.UTC().UnixNano())
	query += where + ` GROUP BY event_type`

	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EventType]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts[models.EventType(eventType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type counts: %w", err)
	}
	return counts, nil
}

func (s *sqliteEventStore) Close() error {
	readErr := s.readDB.Close()
	writeErr := s.writeDB.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func buildWhere(filter EventFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.OrganizationID != "" {
		clauses = append(clauses, "org_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "received_at >= ?")
		args = append(args, filter.Since.UTC().UnixNano())
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}

func scanEvent(rows *sql.Rows) (*models.Event, error) {
	var (
		event        models.Event
		eventType    string
		eventTime    int64
		receivedAt   int64
		metadataJSON sql.NullString
	)
	err := rows.Scan(&event.ID, &eventType, &event.UserID, &event.OrganizationID, &eventTime, &receivedAt, &metadataJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	event.EventType = models.EventType(eventType)
	event.Timestamp = time.Unix(0, eventTime).UTC()
	event.ReceivedAt = time.Unix(0, receivedAt).UTC()
	if metadataJSON.Valid {
		var metadata models.EventMetadata
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
		}
		event.Metadata = &metadata
	}
	return &event, nil
}
