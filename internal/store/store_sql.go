package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/classkit/gradebook/internal/roster"
)

// SQLStore keeps each roster as a row with JSON document columns, against
// either the sqlite or postgres schema from internal/db.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutRoster(ctx context.Context, r *roster.Roster) error {
	if r == nil || r.ID == "" {
		return errors.New("roster id required")
	}
	subj, err := json.Marshal(r.Subjects)
	if err != nil {
		return err
	}
	studs, err := json.Marshal(r.Students)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO rosters (id,title,subjects_json,students_json,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, subjects_json=EXCLUDED.subjects_json,
			students_json=EXCLUDED.students_json, updated_at=EXCLUDED.updated_at`,
		r.ID, r.Title, string(subj), string(studs), time.Now().Unix())
	return err
}

func (s *SQLStore) GetRoster(ctx context.Context, id string) (*roster.Roster, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,subjects_json,students_json FROM rosters WHERE id=$1`, id)
	var r roster.Roster
	var subj, studs string
	if err := row.Scan(&r.ID, &r.Title, &subj, &studs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(subj), &r.Subjects); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(studs), &r.Students); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) ListRosters(ctx context.Context) ([]RosterInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,subjects_json,students_json FROM rosters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RosterInfo{}
	for rows.Next() {
		var id, title, subj, studs string
		if err := rows.Scan(&id, &title, &subj, &studs); err != nil {
			return nil, err
		}
		var subjects []string
		var students []*roster.Student
		if err := json.Unmarshal([]byte(subj), &subjects); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(studs), &students); err != nil {
			return nil, err
		}
		out = append(out, RosterInfo{ID: id, Title: title, Subjects: len(subjects), Students: len(students)})
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteRoster(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rosters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
