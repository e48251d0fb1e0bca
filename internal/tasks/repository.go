package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/shared"
)

// Repository defines owner-scoped persistence operations for tasks.
// Lookups of rows not owned by ownerID return shared.ErrNotFound, identical
// to the row being absent.
type Repository interface {
	Create(ctx context.Context, task Task) (*Task, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*Task, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, updates map[string]interface{}) (*Task, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
	ListOwned(ctx context.Context, req ListTasksRequest) ([]Task, int, error)
	StatsByOwner(ctx context.Context, ownerID int64, now time.Time) (Stats, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]DueReminder, error)
}

// sortColumns whitelists client-facing sort keys against their columns.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
}

// DefaultSort orders newest first, matching client expectations.
const DefaultSort = "-created_at"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, completed, priority, tags, due_date, created_at, updated_at`

// Create inserts a task. The owner stamp comes from task.UserID, which the
// service sets from the bound identity.
func (r *PGRepository) Create(ctx context.Context, task Task) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, completed, priority, tags, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+taskColumns,
		task.UserID, task.Title, task.Description, task.Completed, task.Priority, task.Tags, task.DueDate)
	return scanTask(row)
}

// GetOwned fetches a task by id within the owner's scope.
func (r *PGRepository) GetOwned(ctx context.Context, id, ownerID int64) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	return scanTask(row)
}

// UpdateOwned applies a partial update within the owner's scope and returns
// the updated row.
func (r *PGRepository) UpdateOwned(ctx context.Context, id, ownerID int64, updates map[string]interface{}) (*Task, error) {
	query := "UPDATE tasks SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"title", "description", "completed", "priority", "tags", "due_date"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING %s", argPos, argPos+1, taskColumns)
	args = append(args, id, ownerID)

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// DeleteOwned removes a task within the owner's scope.
func (r *PGRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListOwned returns a filtered, sorted page of the owner's tasks plus the
// total match count.
func (r *PGRepository) ListOwned(ctx context.Context, req ListTasksRequest) ([]Task, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{req.OwnerID}
	argPos := 2

	if req.Completed != nil {
		conditions = append(conditions, fmt.Sprintf("completed = $%d", argPos))
		args = append(args, *req.Completed)
		argPos++
	}
	if req.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, *req.Priority)
		argPos++
	}
	if len(req.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d::text[]", argPos))
		args = append(args, req.Tags)
		argPos++
	}
	if req.Query != nil && *req.Query != "" {
		pattern := "%" + *req.Query + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))",
			argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`SELECT %s FROM tasks %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, whereClause, orderClause(req.Sort), argPos, argPos+1)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *task)
	}
	return out, total, rows.Err()
}

// StatsByOwner aggregates counts for the owner's tasks.
func (r *PGRepository) StatsByOwner(ctx context.Context, ownerID int64, now time.Time) (Stats, error) {
	stats := Stats{ByPriority: make(map[string]int)}
	rows, err := r.pool.Query(ctx,
		`SELECT priority, completed,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE NOT completed AND due_date IS NOT NULL AND due_date < $2)
		 FROM tasks WHERE user_id = $1 GROUP BY priority, completed`, ownerID, now)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var priority string
		var completed bool
		var count, overdue int
		if err := rows.Scan(&priority, &completed, &count, &overdue); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		stats.ByPriority[priority] += count
		stats.Overdue += overdue
		if completed {
			stats.Completed += count
		} else {
			stats.Open += count
		}
	}
	return stats, rows.Err()
}

// ListDueBetween returns open tasks due inside [from, to) joined with their
// owners, for reminder delivery.
func (r *PGRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]DueReminder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.title, t.due_date, u.id, u.name, u.email
		 FROM tasks t JOIN users u ON u.id = t.user_id
		 WHERE NOT t.completed AND t.due_date >= $1 AND t.due_date < $2
		 ORDER BY t.due_date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []DueReminder
	for rows.Next() {
		var rem DueReminder
		if err := rows.Scan(&rem.TaskID, &rem.Title, &rem.DueDate, &rem.OwnerID, &rem.OwnerName, &rem.Email); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func orderClause(sort string) string {
	if sort == "" {
		sort = DefaultSort
	}
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}
	column, ok := sortColumns[sort]
	if !ok {
		column = "created_at"
		direction = "DESC"
	}
	return column + " " + direction
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &t.Tags, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

var _ Repository = (*PGRepository)(nil)
