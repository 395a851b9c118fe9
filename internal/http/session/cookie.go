// Package session управляет сессионной кукой с JWT токеном.
//
// Кука устанавливается с флагами HttpOnly и SameSite=Strict, путь "/",
// Secure в продакшене; срок жизни совпадает со сроком жизни токена,
// чтобы кука и токен истекали вместе.
package session

import (
	"net/http"
	"time"
)

// CookieName — имя сессионной куки, фиксированная константа.
const CookieName = "task_session"

// MaxAge — срок жизни куки, зеркалит TTL токена (7 дней).
const MaxAge = 7 * 24 * time.Hour

// Attach записывает токен в сессионную куку ответа.
func Attach(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear перезаписывает куку пустым значением с истёкшим сроком,
// что гарантирует удаление на всех клиентах независимо от кэширования.
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Token извлекает токен из куки запроса. Возвращает пустую строку,
// если куки нет.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
