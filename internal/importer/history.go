// internal/importer/history.go
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// History outcomes.
const (
	HistorySuccess = "success"
	HistoryFailed  = "failed"
)

// HistoryEntry records one executed plan entry.
type HistoryEntry struct {
	ID        int64
	Action    string
	Source    string
	Dest      string
	Outcome   string
	NoOp      bool
	Error     string
	CreatedAt time.Time
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	Outcome *string
	Dest    *string
	Limit   int
}

// HistoryStore persists history records.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db, now: time.Now}
}

// Add inserts a new history entry and sets its ID and CreatedAt.
func (s *HistoryStore) Add(ctx context.Context, h *HistoryEntry) error {
	now := s.now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO history (action, source, dest, outcome, noop, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.Action, h.Source, h.Dest, h.Outcome, h.NoOp, h.Error, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// List returns history entries matching the filter, most recent first.
func (s *HistoryStore) List(ctx context.Context, f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.Outcome != nil {
		conditions = append(conditions, "outcome = ?")
		args = append(args, *f.Outcome)
	}
	if f.Dest != nil {
		conditions = append(conditions, "dest = ?")
		args = append(args, *f.Dest)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, action, source, dest, outcome, noop, error, created_at
		FROM history ` + whereClause + ` ORDER BY created_at DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.Action, &h.Source, &h.Dest, &h.Outcome, &h.NoOp, &h.Error, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}
