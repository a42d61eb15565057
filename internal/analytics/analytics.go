// Package analytics records privacy-conscious visitor metrics and gallery
// interactions in SQLite. It is write-mostly: gallery state is never read
// back from it.
package analytics

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// queueSize bounds the writes waiting for the background writer.
const queueSize = 256

// Retention is how long visitor and event rows are kept.
const Retention = 365 * 24 * time.Hour

// VisitorMetric is one tracked page view. The IP is stored hashed.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is a gallery transition worth counting.
type Event struct {
	ID          int       `json:"id"`
	SessionHash string    `json:"session_hash"`
	Kind        string    `json:"kind"`
	EntryID     int       `json:"entry_id"`
	Order       string    `json:"order,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// EntryStat counts how often an entry was opened in the lightbox.
type EntryStat struct {
	EntryID    int   `json:"entry_id"`
	Selections int64 `json:"selections"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalEvents      int64           `json:"total_events"`
	Reorders         int64           `json:"reorders"`
	TopEntries       []EntryStat     `json:"top_entries"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	RecentEvents     []Event         `json:"recent_events"`
}

// Store wraps the analytics database. Track* calls are queued and written in
// order by a single background writer; Close drains the queue first.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	closed  bool
	writes  chan func() error
	drained chan struct{}
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening analytics database: %w", err)
	}
	// SQLite allows one writer; tracking runs from many goroutines.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:      db,
		writes:  make(chan func() error, queueSize),
		drained: make(chan struct{}),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	go s.writer()
	return s, nil
}

func (s *Store) writer() {
	defer close(s.drained)
	for write := range s.writes {
		if err := write(); err != nil {
			log.Errorf("Error writing analytics: %v", err)
		}
	}
}

// enqueue hands write to the writer. It reports false once the store is closed.
func (s *Store) enqueue(write func() error) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	s.writes <- write
	return true
}

// TrackVisit queues a page view.
func (s *Store) TrackVisit(hashedIP, userAgent, path string) {
	if !s.enqueue(func() error { return s.RecordVisit(hashedIP, userAgent, path) }) {
		log.Debug("Analytics closed, dropping visit")
	}
}

// TrackEvent queues a gallery transition. Events queued from one goroutine
// are stored in the order they were queued.
func (s *Store) TrackEvent(e Event) {
	if !s.enqueue(func() error { return s.RecordEvent(e) }) {
		log.Debug("Analytics closed, dropping gallery event")
	}
}

// Flush waits until every write queued before it has been stored.
func (s *Store) Flush() {
	done := make(chan struct{})
	if !s.enqueue(func() error { close(done); return nil }) {
		return
	}
	<-done
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,  -- never the raw IP
			user_agent TEXT,
			path TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS gallery_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_hash TEXT NOT NULL,
			kind TEXT NOT NULL,
			entry_id INTEGER,
			entry_order TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gallery_events_kind ON gallery_events (kind, entry_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating analytics schema: %w", err)
		}
	}
	return nil
}

// Close stops accepting writes, waits for the queue to drain and closes the
// database. Calling it again is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()

	<-s.drained
	return s.db.Close()
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(hashedIP, userAgent, path string) error {
	_, err := s.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path)
		VALUES (?, ?, ?)
	`, hashedIP, userAgent, path)
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordEvent stores a gallery transition.
func (s *Store) RecordEvent(e Event) error {
	_, err := s.db.Exec(`
		INSERT INTO gallery_events (session_hash, kind, entry_id, entry_order)
		VALUES (?, ?, ?, ?)
	`, e.SessionHash, e.Kind, e.EntryID, e.Order)
	if err != nil {
		return fmt.Errorf("recording gallery event: %w", err)
	}
	return nil
}

// FormatOrder renders an id order as a comma list for storage.
func FormatOrder(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Cleanup deletes rows older than retention and returns how many went.
func (s *Store) Cleanup(retention time.Duration) (int64, error) {
	cutoff := fmt.Sprintf("-%d seconds", int64(retention.Seconds()))
	var total int64
	for _, table := range []string{"visitors", "gallery_events"} {
		result, err := s.db.Exec(`DELETE FROM `+table+` WHERE timestamp < datetime('now', ?)`, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleaning up %s: %w", table, err)
		}
		n, _ := result.RowsAffected()
		total += n
	}
	return total, nil
}

// Stats gathers the dashboard summary.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	counters := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, &stats.TotalVisitors},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')`, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')`, &stats.VisitorsThisWeek},
		{`SELECT COUNT(*) FROM gallery_events`, &stats.TotalEvents},
		{`SELECT COUNT(*) FROM gallery_events WHERE kind = 'reorder'`, &stats.Reorders},
	}
	for _, c := range counters {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("loading stats: %w", err)
		}
	}

	var err error
	if stats.TopEntries, err = s.topEntries(10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(50); err != nil {
		return nil, err
	}
	if stats.RecentEvents, err = s.RecentEvents(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) topEntries(limit int) ([]EntryStat, error) {
	rows, err := s.db.Query(`
		SELECT entry_id, COUNT(*) AS selections
		FROM gallery_events
		WHERE kind = 'select'
		GROUP BY entry_id
		ORDER BY selections DESC, entry_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading top entries: %w", err)
	}
	defer rows.Close()

	var out []EntryStat
	for rows.Next() {
		var e EntryStat
		if err := rows.Scan(&e.EntryID, &e.Selections); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentVisitors returns the latest page views, newest first.
func (s *Store) RecentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RecentEvents returns the latest gallery events, newest first.
func (s *Store) RecentEvents(limit int) ([]Event, error) {
	rows, err := s.db.Query(`
		SELECT id, session_hash, kind, COALESCE(entry_id, 0), COALESCE(entry_order, ''), timestamp
		FROM gallery_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading gallery events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SessionHash, &e.Kind, &e.EntryID, &e.Order, &e.Timestamp); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
