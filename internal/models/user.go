// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Email хранится в нижнем регистре, уникальность обеспечивается базой.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (нормализована к нижнему регистру)
	PasswordHash string    // Хэш пароля пользователя
	CreatedDate  time.Time // Дата регистрации
}

// UserView — представление пользователя в ответах API.
// Хэш пароля наружу не отдается никогда.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// View возвращает публичное представление пользователя.
func (u *User) View() UserView {
	return UserView{
		ID:    u.UID,
		Email: u.Email,
	}
}
