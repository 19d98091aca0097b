package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/tuicher/pkg/protocol"
	"github.com/ayusman/tuicher/pkg/protocol/wire"
)

// Entry is one selected result.
type Entry struct {
	ID        string
	Query     string
	Keyword   string
	Text      string
	Action    protocol.Action // nil when the result was handed back to a plugin
	CreatedAt time.Time

	// ActionErr is set when the stored action could not be decoded. Action is nil then.
	ActionErr error

	storedKind string
}

// ActionKind names the entry's action, or "" when it has none.
func (e *Entry) ActionKind() string {
	if e.Action == nil {
		return e.storedKind
	}
	return e.Action.Kind().String()
}

// HistoryRepository records and lists selections.
type HistoryRepository struct {
	db *sql.DB
}

// History returns the history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// Record inserts e, assigning its ID and timestamp.
func (r *HistoryRepository) Record(e *Entry) error {
	var blob []byte
	if e.Action != nil {
		var err error
		blob, err = wire.EncodeAction(e.Action)
		if err != nil {
			return fmt.Errorf("failed to encode action: %w", err)
		}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO history (id, query, keyword, text, action_kind, action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Query, e.Keyword, e.Text, e.ActionKind(), blob, e.CreatedAt,
	)
	return err
}

// GetByID retrieves an entry by its ID.
func (r *HistoryRepository) GetByID(id string) (*Entry, error) {
	row := r.db.QueryRow(
		`SELECT id, query, keyword, text, action_kind, action, created_at
		 FROM history WHERE id = ?`,
		id,
	)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// List returns the most recent entries first. A limit of zero or less returns all of them.
// Entries whose action cannot be decoded are still listed, with ActionErr set.
func (r *HistoryRepository) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, query, keyword, text, action_kind, action, created_at
		 FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes an entry by its ID.
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Clear removes every entry and returns how many were deleted.
func (r *HistoryRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM history`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	e := &Entry{}
	var blob []byte

	if err := s.Scan(&e.ID, &e.Query, &e.Keyword, &e.Text, &e.storedKind, &blob, &e.CreatedAt); err != nil {
		return nil, err
	}

	if len(blob) > 0 {
		action, err := wire.DecodeAction(blob)
		if err != nil {
			e.ActionErr = fmt.Errorf("history entry %s: %w", e.ID, err)
			return e, nil
		}
		e.Action = action
	}

	return e, nil
}
