// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/task-tracker/internal/errs"
)

// Response описывает стандартную структуру JSON-ответа сервера:
// {"success":true,"data":...} либо {"success":false,"error":{"code","message"}}.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody — машинно-читаемый код и человеко-читаемое сообщение ошибки.
type ErrorBody struct {
	Code    string `json:"code" example:"VALIDATION_ERROR"`
	Message string `json:"message" example:"Validation failed"`
}

// Коды ошибок, отдаваемые клиенту.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeTaskNotFound  = "TASK_NOT_FOUND"
	CodeEmailConflict = "EMAIL_CONFLICT"
	CodeBadCreds      = "INVALID_CREDENTIALS"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error возвращает Response с кодом и сообщением ошибки.
func Error(code, msg string) Response {
	return Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: msg,
		},
	}
}

// FromError сопоставляет доменную ошибку с HTTP-статусом и телом ответа.
// Неопознанная ошибка превращается в 500 без каких-либо внутренних
// подробностей в теле.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, Error(CodeUnauthorized, "Invalid or expired session")
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error(CodeBadCreds, "Invalid email or password")
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, Error(CodeForbidden, "Forbidden")
	case errors.Is(err, errs.ErrTaskNotFound):
		return http.StatusNotFound, Error(CodeTaskNotFound, "Task not found")
	case errors.Is(err, errs.ErrEmailTaken):
		return http.StatusConflict, Error(CodeEmailConflict, "Email already in use")
	default:
		return http.StatusInternalServerError, Error(CodeInternal, "Internal server error")
	}
}

// ValidationError формирует Response с кодом VALIDATION_ERROR на основе
// ошибок валидации. Каждое нарушение превращается в человеко-читаемый
// текст, объединённый через запятую.
func ValidationError(errsList validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errsList {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "password":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must include upper and lower case letters and a number", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(CodeValidation, strings.Join(errsMsgs, ", "))
}
