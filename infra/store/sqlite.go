package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lessonbird/timetable/core/model"
)

// SQLiteStore persists placements to a SQLite database. Apply runs in one
// transaction so the delete-and-insert is atomic.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS placements (
        id TEXT PRIMARY KEY,
        school_id TEXT NOT NULL,
        term_id TEXT NOT NULL,
        day INTEGER NOT NULL,
        period_id TEXT NOT NULL,
        class_id TEXT NOT NULL,
        subject_id TEXT NOT NULL,
        teacher_id TEXT NOT NULL,
        room_id TEXT NOT NULL DEFAULT ''
    );
    CREATE TABLE IF NOT EXISTS scope_versions (
        school_id TEXT NOT NULL,
        term_id TEXT NOT NULL,
        version INTEGER NOT NULL DEFAULT 0,
        PRIMARY KEY (school_id, term_id)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func scanPlacement(row interface{ Scan(...any) error }) (model.Placement, error) {
	var p model.Placement
	var day int
	err := row.Scan(&p.ID, &p.SchoolID, &p.TermID, &day, &p.PeriodID, &p.ClassID, &p.SubjectID, &p.TeacherID, &p.RoomID)
	p.Day = model.Weekday(day)
	return p, err
}

// Snapshot implements Store.
func (s *SQLiteStore) Snapshot(ctx context.Context, schoolID, termID string) ([]model.Placement, uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	version, err := scopeVersion(ctx, tx, schoolID, termID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT id, school_id, term_id, day, period_id, class_id, subject_id, teacher_id, room_id
         FROM placements WHERE school_id = ? AND term_id = ?`, schoolID, termID)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, version, tx.Commit()
}

func scopeVersion(ctx context.Context, tx *sql.Tx, schoolID, termID string) (uint64, error) {
	var version uint64
	err := tx.QueryRowContext(ctx,
		`SELECT version FROM scope_versions WHERE school_id = ? AND term_id = ?`,
		schoolID, termID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// Apply implements Store.
func (s *SQLiteStore) Apply(ctx context.Context, schoolID, termID string, version uint64, deleteIDs []string, insert model.Placement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scopeVersion(ctx, tx, schoolID, termID)
	if err != nil {
		return err
	}
	if current != version {
		return ErrStaleSnapshot
	}
	for _, id := range deleteIDs {
		res, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO placements (id, school_id, term_id, day, period_id, class_id, subject_id, teacher_id, room_id)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insert.ID, insert.SchoolID, insert.TermID, int(insert.Day), insert.PeriodID,
		insert.ClassID, insert.SubjectID, insert.TeacherID, insert.RoomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scope_versions (school_id, term_id, version) VALUES (?, ?, 1)
         ON CONFLICT (school_id, term_id) DO UPDATE SET version = version + 1`,
		schoolID, termID); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove implements Store.
func (s *SQLiteStore) Remove(ctx context.Context, id string) (model.Placement, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Placement{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := scanPlacement(tx.QueryRowContext(ctx,
		`SELECT id, school_id, term_id, day, period_id, class_id, subject_id, teacher_id, room_id
         FROM placements WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Placement{}, ErrNotFound
	}
	if err != nil {
		return model.Placement{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE id = ?`, id); err != nil {
		return model.Placement{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scope_versions (school_id, term_id, version) VALUES (?, ?, 1)
         ON CONFLICT (school_id, term_id) DO UPDATE SET version = version + 1`,
		p.SchoolID, p.TermID); err != nil {
		return model.Placement{}, err
	}
	return p, tx.Commit()
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Placement, error) {
	p, err := scanPlacement(s.db.QueryRowContext(ctx,
		`SELECT id, school_id, term_id, day, period_id, class_id, subject_id, teacher_id, room_id
         FROM placements WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Placement{}, ErrNotFound
	}
	return p, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
