package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/task-tracker/internal/errs"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// escapeLike экранирует метасимволы LIKE, чтобы поисковый запрос
// трактовался как буквальная подстрока, а не шаблон.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateTask вставляет новую запись задачи. Описание приходит уже
// зашифрованным, хранилище с открытым текстом не работает.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) error {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tasks (id, title, description, status, owner_uid, created_date)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.OwnerUID, task.CreatedDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadTask возвращает задачу по её ID без проверки владельца,
// проверка принадлежности выполняется сервисом.
func (s *Storage) ReadTask(ctx context.Context, id string) (*models.Task, error) {
	const op = "storage.ReadTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, status, owner_uid, created_date
			  FROM tasks WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Task
	if err := row.Scan(&result.ID, &result.Title, &result.Description,
		&result.Status, &result.OwnerUID, &result.CreatedDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateTask перезаписывает изменяемые поля задачи по её ID.
// Слияние частичного патча с текущим состоянием делает сервис.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task) (int, error) {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks
			  SET title = $1, description = $2, status = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveTask удаляет задачу по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveTask(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tasks WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTasks возвращает страницу задач владельца и общее количество
// по тем же фильтрам. Обе выборки выполняются в одной read-only
// транзакции: total и содержимое страницы сняты с одного снимка,
// конкурентные вставки и удаления между ними не расходятся.
func (s *Storage) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, int, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := `WHERE owner_uid = $1`
	args := []any{filter.OwnerUID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, escapeLike(*filter.Search))
		where += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%' ESCAPE '\\'", len(args))
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var total int
	countQuery := `SELECT count(*) FROM tasks ` + where
	if err = tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	pageQuery := fmt.Sprintf(`SELECT id, title, description, status, owner_uid, created_date
			  FROM tasks %s
			  ORDER BY created_date DESC
			  LIMIT $%d OFFSET $%d`, where, len(pageArgs)-1, len(pageArgs))
	rows, err := tx.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Task, 0)
	for rows.Next() {
		var item models.Task
		if err = rows.Scan(&item.ID, &item.Title, &item.Description,
			&item.Status, &item.OwnerUID, &item.CreatedDate); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
