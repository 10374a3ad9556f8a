package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maxter/simrec/internal/recording"
)

// Count returns the number of recording rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_recording_tb`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recordings: %w", err)
	}
	return n, nil
}

// ReadAll returns every recording ordered by _id.
//
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) ReadAll(ctx context.Context) ([]recording.Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT _id, name, path, length, created_time
		FROM saved_recording_tb
		ORDER BY _id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	infos := []recording.Info{}
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}

	return infos, nil
}

// ReadByID retrieves a single recording.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadByID(ctx context.Context, id int64) (recording.Info, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT _id, name, path, length, created_time
		FROM saved_recording_tb
		WHERE _id = ?
	`, id)

	info, err := scanInfo(row)
	if err != nil {
		return recording.Info{}, err
	}
	return info, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanInfo reads one row. Text columns may be NULL in databases written by
// other clients, so they are scanned through sql.NullString.
func scanInfo(row scanner) (recording.Info, error) {
	var (
		info   recording.Info
		name   sql.NullString
		path   sql.NullString
		length sql.NullInt64
		ctime  sql.NullInt64
	)
	if err := row.Scan(&info.ID, &name, &path, &length, &ctime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recording.Info{}, err
		}
		return recording.Info{}, fmt.Errorf("scan recording: %w", err)
	}
	info.Name = name.String
	info.Path = path.String
	info.Length = length.Int64
	info.CreatedTime = ctime.Int64
	return info, nil
}
