// Package errs определяет доменные ошибки сервиса.
// Обработчики сопоставляют их с HTTP-статусами через errors.Is,
// поэтому нижние слои оборачивают их с %w, не подменяя текстами хранилища.
package errs

import "errors"

var (
	// ErrUnauthorized — сессия отсутствует, подпись неверна или токен истёк.
	// Причина не различается намеренно, чтобы не давать оракул злоумышленнику.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden — задача существует, но принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")

	// ErrTaskNotFound — задачи с таким ID не существует.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound — пользователь с таким email не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken — нарушение уникальности email при регистрации.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials — неверная пара email/пароль при входе.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
