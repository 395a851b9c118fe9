// Package models содержит доменные структуры, описывающие задачу,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы задачи. Переходы не упорядочены: владелец может выставить
// любой статус в любой момент.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Task представляет собой основную модель задачи, используемую
// в бизнес-логике и хранилище. Поле Description в хранилище лежит
// в зашифрованном конверте, наружу API всегда отдаёт открытый текст.
type Task struct {
	ID          string    `json:"id"`          // Уникальный идентификатор задачи
	Title       string    `json:"title"`       // Заголовок
	Description string    `json:"description"` // Описание (в базе — конверт nonce:tag:ciphertext)
	Status      string    `json:"status"`      // Статус: TODO, IN_PROGRESS, DONE
	OwnerUID    string    `json:"ownerId"`     // Идентификатор владельца
	CreatedDate time.Time `json:"createdDate"` // Дата создания
}

// DummyTask используется для приёма данных из JSON-запроса на создание
// задачи до их валидации и преобразования в Task.
type DummyTask struct {
	Title       string `json:"title" validate:"required,max=120"`                       // Заголовок (1..120 после trim)
	Description string `json:"description" validate:"required,max=2000"`                // Описание (1..2000 после trim)
	Status      string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"` // Статус, по умолчанию TODO
}

// DummyTaskUpdate — частичное обновление задачи. Каждое поле опционально,
// nil означает "оставить как есть"; наличие хотя бы одного поля
// проверяется обработчиком. Переданный заголовок после trim не может быть
// пустым. Пустое описание оставляет сохранённый шифротекст нетронутым
// (семантика оригинального контракта).
type DummyTaskUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
}

// Empty сообщает, что патч не содержит ни одного поля.
func (u DummyTaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil
}

// TaskFilter — параметры выборки задач, передаваемые в слой доступа к данным.
// Status и Search равны nil, если соответствующего фильтра нет.
type TaskFilter struct {
	OwnerUID string  // Владелец, задачи других пользователей не видны
	Status   *string // Точный фильтр по статусу
	Search   *string // Подстрока заголовка без учёта регистра
	Limit    int     // Размер страницы
	Offset   int     // Смещение: (page-1)*limit
}

// Pagination описывает метаданные страницы в ответе списка задач.
// Total — размер всего отфильтрованного набора, не только страницы.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
