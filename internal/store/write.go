package store

import (
	"context"
	"fmt"

	"github.com/maxter/simrec/internal/recording"
)

// Insert adds a recording row and returns the store-assigned _id.
// info.ID is ignored.
func (s *Store) Insert(ctx context.Context, info recording.Info) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_recording_tb (name, path, length, created_time)
		VALUES (?, ?, ?, ?)
	`,
		info.Name,
		info.Path,
		info.Length,
		info.CreatedTime,
	)
	if err != nil {
		return 0, fmt.Errorf("insert recording: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert recording: last insert id: %w", err)
	}

	return id, nil
}

// Delete removes the row with the given _id.
// Returns false if no such row existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_recording_tb WHERE _id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete recording %d: %w", id, err)
	}
	return affected(result, "delete recording")
}

// Rename sets name and path on the row with the given _id.
// Returns false if no such row existed.
func (s *Store) Rename(ctx context.Context, id int64, name, path string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE saved_recording_tb
		SET name = ?, path = ?
		WHERE _id = ?
	`, name, path, id)
	if err != nil {
		return false, fmt.Errorf("rename recording %d: %w", id, err)
	}
	return affected(result, "rename recording")
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func affected(result rowsAffecter, op string) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n > 0, nil
}
