package task

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Store struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("task not found")

func (s *Store) List(ctx context.Context) ([]Task, error) {
	const q = `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, title string, description *string) (*Task, error) {
	now := time.Now().UTC()

	const q = `
		INSERT INTO tasks (title, description, completed, created_at, updated_at)
		VALUES ($1, $2, FALSE, $3, $3)
		RETURNING id
	`
	t := Task{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.QueryRowContext(ctx, q, title, description, now).Scan(&t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SetCompletion(ctx context.Context, id int64, completed bool) (*Task, error) {
	const q = `
		UPDATE tasks
		SET completed = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, title, description, completed, created_at, updated_at
	`
	var t Task
	err := s.DB.QueryRowContext(ctx, q, completed, time.Now().UTC(), id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
