package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-tracker/internal/errs"
	"github.com/magabrotheeeer/task-tracker/internal/lib/cipher"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// TaskRepository определяет методы для работы с задачами в хранилище.
type TaskRepository interface {
	// CreateTask добавляет новую задачу.
	CreateTask(ctx context.Context, task models.Task) error
	// ReadTask возвращает задачу по ID или errs.ErrTaskNotFound.
	ReadTask(ctx context.Context, id string) (*models.Task, error)
	// UpdateTask перезаписывает изменяемые поля задачи.
	UpdateTask(ctx context.Context, task models.Task) (int, error)
	// RemoveTask удаляет задачу по ID.
	RemoveTask(ctx context.Context, id string) (int, error)
	// ListTasks возвращает страницу задач и общий размер отфильтрованного набора.
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// TaskService реализует бизнес-логику работы с задачами: проверку
// владельца, шифрование описания на границе сервиса и постраничную
// выборку. Наружу всегда уходит открытый текст описания, в хранилище
// и кэш — только конверт.
type TaskService struct {
	repo   TaskRepository
	cache  Cache
	cipher *cipher.Cipher
	log    *slog.Logger
}

// NewTaskService создает новый экземпляр TaskService.
func NewTaskService(repo TaskRepository, cache Cache, c *cipher.Cipher, log *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		cache:  cache,
		cipher: c,
		log:    log,
	}
}

// Create создает новую задачу для пользователя и возвращает её
// с расшифрованным описанием.
func (s *TaskService) Create(ctx context.Context, ownerUID string, req models.DummyTask) (*models.Task, error) {
	const op = "services.task.Create"

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	encrypted, err := s.cipher.Encrypt(req.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	task := models.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: encrypted,
		Status:      status,
		OwnerUID:    ownerUID,
		CreatedDate: time.Now().UTC(),
	}
	if err = s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new task", slog.String("id", task.ID))

	cacheKey := taskCacheKey(task.ID)
	if err = s.cache.Set(cacheKey, task, time.Hour); err != nil {
		s.log.Warn("failed to cache task", slog.String("key", cacheKey), slog.Any("err", err))
	}

	result := task
	result.Description = req.Description
	return &result, nil
}

// Get возвращает задачу владельца с расшифрованным описанием.
func (s *TaskService) Get(ctx context.Context, ownerUID, taskID string) (*models.Task, error) {
	const op = "services.task.Get"

	task, err := s.getOwned(ctx, ownerUID, taskID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.decrypted(task)
}

// Update применяет частичный патч к задаче владельца. Поле, равное nil,
// оставляет текущее значение; описание перешифровывается только когда
// передано непустым — пустая строка сохранённый конверт не трогает.
func (s *TaskService) Update(ctx context.Context, ownerUID, taskID string, patch models.DummyTaskUpdate) (*models.Task, error) {
	const op = "services.task.Update"

	task, err := s.getOwned(ctx, ownerUID, taskID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated := *task
	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.Description != nil && *patch.Description != "" {
		encrypted, err := s.cipher.Encrypt(*patch.Description)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		updated.Description = encrypted
	}

	if _, err = s.repo.UpdateTask(ctx, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated task", slog.String("id", taskID))

	cacheKey := taskCacheKey(taskID)
	if err = s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache task", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return s.decrypted(&updated)
}

// Remove удаляет задачу владельца. Кэш инвалидируется только после
// успешного удаления, чтобы при ошибке хранилища запись не пропадала
// из кэша раньше, чем из базы.
func (s *TaskService) Remove(ctx context.Context, ownerUID, taskID string) error {
	const op = "services.task.Remove"

	if _, err := s.getOwned(ctx, ownerUID, taskID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.RemoveTask(ctx, taskID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("removed task", slog.String("id", taskID))

	cacheKey := taskCacheKey(taskID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// List возвращает страницу задач владельца с метаданными пагинации.
// Кэш здесь не используется: total и страница должны быть сняты
// с одного снимка базы.
func (s *TaskService) List(ctx context.Context, ownerUID string, page, limit int, status, search *string) ([]*models.Task, models.Pagination, error) {
	const op = "services.task.List"

	filter := models.TaskFilter{
		OwnerUID: ownerUID,
		Status:   status,
		Search:   search,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	items, total, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*models.Task, 0, len(items))
	for _, item := range items {
		task, err := s.decrypted(item)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		result = append(result, task)
	}

	pagination := models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	return result, pagination, nil
}

// getOwned — единая точка проверки владельца: читает задачу через кэш
// или хранилище и сверяет owner_uid с запрашивающим. Чужая задача —
// errs.ErrForbidden, отсутствующая — errs.ErrTaskNotFound.
func (s *TaskService) getOwned(ctx context.Context, ownerUID, taskID string) (*models.Task, error) {
	var task *models.Task
	cacheKey := taskCacheKey(taskID)
	found, err := s.cache.Get(cacheKey, &task)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		task, err = s.repo.ReadTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if err = s.cache.Set(cacheKey, task, time.Hour); err != nil {
			s.log.Warn("failed to cache task", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	if task.OwnerUID != ownerUID {
		return nil, errs.ErrForbidden
	}
	return task, nil
}

// decrypted возвращает копию задачи с расшифрованным описанием.
// Ошибка аутентификации конверта поднимается наверх: это порча данных
// или смена ключа, а не пользовательская ошибка.
func (s *TaskService) decrypted(task *models.Task) (*models.Task, error) {
	const op = "services.task.decrypted"
	plaintext, err := s.cipher.Decrypt(task.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := *task
	result.Description = plaintext
	return &result, nil
}

func taskCacheKey(id string) string {
	return "task:" + id
}
