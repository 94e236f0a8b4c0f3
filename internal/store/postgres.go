package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url must not be empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			tags JSONB NOT NULL DEFAULT '[]'::jsonb,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			due_date TIMESTAMPTZ,
			priority_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`ALTER TABLE todos ADD COLUMN IF NOT EXISTS due_date TIMESTAMPTZ;`,
		`ALTER TABLE todos ADD COLUMN IF NOT EXISTS priority_score DOUBLE PRECISION NOT NULL DEFAULT 0;`,
		`CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const todoColumns = `id, title, completed, tags, duration_minutes, due_date, priority_score, created_at, updated_at`

func (s *PostgresStore) CreateTodo(ctx context.Context, input SaveTodoInput) (*Todo, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	tagsJSON := encodeTags(input.Tags)

	row := s.pool.QueryRow(ctx, `
		INSERT INTO todos (title, completed, tags, duration_minutes, due_date, priority_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+todoColumns,
		input.Title, input.Completed, tagsJSON, input.DurationMinutes, input.DueDate, input.PriorityScore,
	)
	return scanTodo(row)
}

func (s *PostgresStore) GetTodo(ctx context.Context, id int64) (*Todo, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	t, err := scanTodo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *PostgresStore) ListTodos(ctx context.Context, filter TodoFilter) ([]*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Completed != nil {
		n++
		query += fmt.Sprintf(" AND completed = $%d", n)
		args = append(args, *filter.Completed)
	}

	query += " ORDER BY created_at ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *PostgresStore) UpdateTodo(ctx context.Context, id int64, input SaveTodoInput) (*Todo, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	tagsJSON := encodeTags(input.Tags)

	row := s.pool.QueryRow(ctx, `
		UPDATE todos
		SET title = $2, completed = $3, tags = $4, duration_minutes = $5,
			due_date = $6, priority_score = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+todoColumns,
		id, input.Title, input.Completed, tagsJSON, input.DurationMinutes, input.DueDate, input.PriorityScore,
	)
	t, err := scanTodo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *PostgresStore) DeleteTodo(ctx context.Context, id int64) (bool, error) {
	res, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*TodoStats, error) {
	stats := &TodoStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT completed THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(duration_minutes), 0),
			COALESCE(AVG(priority_score), 0)
		FROM todos`,
	).Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.AvgDurationMinutes, &stats.AvgPriority)
	return stats, err
}

func validateInput(input SaveTodoInput) error {
	if len(input.Title) == 0 {
		return errors.New("title must not be empty")
	}
	if len(input.Title) > 200 {
		return errors.New("title too long")
	}
	if input.DurationMinutes < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*Todo, error) {
	t := &Todo{}
	var tagsRaw []byte
	if err := row.Scan(
		&t.ID, &t.Title, &t.Completed, &tagsRaw, &t.DurationMinutes,
		&t.DueDate, &t.PriorityScore, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(tagsRaw) == 0 {
		t.Tags = []string{}
	} else if err := json.Unmarshal(tagsRaw, &t.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

func encodeTags(tags []string) []byte {
	if len(tags) == 0 {
		return []byte("[]")
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return []byte("[]")
	}
	return data
}
