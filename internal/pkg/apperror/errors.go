package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeListingUnavailable ErrorCode = "LISTING_UNAVAILABLE"
	ErrCodeQuantityExceeded   ErrorCode = "QUANTITY_EXCEEDED"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflictRetry      ErrorCode = "CONFLICT_RETRY"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeListingUnavailable, ErrCodeQuantityExceeded, ErrCodeInvalidTransition:
		return http.StatusBadRequest
	case ErrCodeConflictRetry:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError возвращает *AppError из цепочки ошибок, либо nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsConflictRetry(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflictRetry
}

func IsInvalidTransition(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidTransition
}

var (
	ErrListingNotFound    = New(ErrCodeNotFound, "объявление не найдено")
	ErrOfferNotFound      = New(ErrCodeNotFound, "предложение не найдено")
	ErrReportNotFound     = New(ErrCodeNotFound, "жалоба не найдена")
	ErrProfileNotFound    = New(ErrCodeNotFound, "профиль не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrListingUnavailable = New(ErrCodeListingUnavailable, "объявление недоступно")
	ErrQuantityExceeded   = New(ErrCodeQuantityExceeded, "количество превышает доступный остаток")
	ErrInvalidTransition  = New(ErrCodeInvalidTransition, "недопустимый переход статуса")
	ErrConflictRetry      = New(ErrCodeConflictRetry, "конфликт одновременного обновления, повторите запрос")
)
