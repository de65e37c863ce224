package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

var _ ports.TaskStore = (*TaskStore)(nil)

const taskColumns = `id, type, status, owner, expires_at, created_at, updated_at, input, result, message`

const stubColumns = `id, type, status, owner, expires_at, created_at, updated_at`

// TaskStore persists tasks in the tasks table.
type TaskStore struct {
	pool    *pgxpool.Pool
	factory *task.Factory
}

// NewTaskStore creates a TaskStore. Entities are rebuilt with factory.
func NewTaskStore(pool *pgxpool.Pool, factory *task.Factory) *TaskStore {
	return &TaskStore{pool: pool, factory: factory}
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Entity, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var (
		p             task.Params
		input, result []byte
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Type,
		&p.Status,
		&p.Owner,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&input,
		&result,
		&p.Message,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	if p.Input, err = decodePayload(input); err != nil {
		return nil, fmt.Errorf("decoding input of task %s: %w", id, err)
	}
	if p.Result, err = decodePayload(result); err != nil {
		return nil, fmt.Errorf("decoding result of task %s: %w", id, err)
	}
	normalize(&p)

	t, err := s.factory.Restore(p)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Add inserts a new task. Returns domain.ErrConflict if the ID exists.
func (s *TaskStore) Add(ctx context.Context, t task.Entity) error {
	input, result, err := encodePayloads(t)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = s.pool.Exec(ctx, query,
		t.ID(),
		t.Type().String(),
		t.Status().String(),
		t.Owner(),
		t.ExpiresAt(),
		t.CreatedAt(),
		t.UpdatedAt(),
		input,
		result,
		t.Message(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %s already exists: %w", t.ID(), domain.ErrConflict)
		}
		return fmt.Errorf("adding task %s: %w", t.ID(), err)
	}
	return nil
}

// Save updates the mutable fields of the stored task. A non-empty fromState
// must match the stored status or domain.ErrConflict is returned.
func (s *TaskStore) Save(ctx context.Context, t task.Entity, fromState task.Status) error {
	input, result, err := encodePayloads(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET status = $2, expires_at = $3, updated_at = $4, input = $5, result = $6, message = $7
		WHERE id = $1 AND ($8::text = '' OR status = $8::text)
	`
	tag, err := s.pool.Exec(ctx, query,
		t.ID(),
		t.Status().String(),
		t.ExpiresAt(),
		t.UpdatedAt(),
		input,
		result,
		t.Message(),
		fromState.String(),
	)
	if err != nil {
		return fmt.Errorf("saving task %s: %w", t.ID(), err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, t.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("saving task %s: %w", t.ID(), err)
	}
	if !exists {
		return fmt.Errorf("task %s: %w", t.ID(), domain.ErrNotFound)
	}
	return fmt.Errorf("task %s is no longer %s: %w", t.ID(), fromState, domain.ErrConflict)
}

// Remove deletes the task.
func (s *TaskStore) Remove(ctx context.Context, t task.Entity) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, t.ID())
	if err != nil {
		return fmt.Errorf("removing task %s: %w", t.ID(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", t.ID(), domain.ErrNotFound)
	}
	return nil
}

// List returns stubs matching filter, oldest first.
func (s *TaskStore) List(ctx context.Context, filter task.Filter) ([]task.Stub, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Owner != "" {
		add("owner = $%d", filter.Owner)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status.String())
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type.String())
	}
	if filter.ExpiresBefore != nil {
		add("expires_at < $%d", *filter.ExpiresBefore)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + stubColumns + ` FROM tasks`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	stubs := make([]task.Stub, 0)
	for rows.Next() {
		var st task.Stub
		if err := rows.Scan(
			&st.ID,
			&st.Type,
			&st.Status,
			&st.Owner,
			&st.ExpiresAt,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning task stub: %w", err)
		}
		st.CreatedAt = st.CreatedAt.UTC()
		st.UpdatedAt = st.UpdatedAt.UTC()
		if st.ExpiresAt != nil {
			exp := st.ExpiresAt.UTC()
			st.ExpiresAt = &exp
		}
		stubs = append(stubs, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return stubs, nil
}

func encodePayloads(t task.Entity) (input, result []byte, err error) {
	if input, err = encodePayload(t.Input()); err != nil {
		return nil, nil, fmt.Errorf("encoding input of task %s: %w", t.ID(), err)
	}
	if result, err = encodePayload(t.Result()); err != nil {
		return nil, nil, fmt.Errorf("encoding result of task %s: %w", t.ID(), err)
	}
	return input, result, nil
}

// encodePayload maps a nil payload to SQL NULL.
func encodePayload(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func decodePayload(raw []byte) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func normalize(p *task.Params) {
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.ExpiresAt != nil {
		exp := p.ExpiresAt.UTC()
		p.ExpiresAt = &exp
	}
}
