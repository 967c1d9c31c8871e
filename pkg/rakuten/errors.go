package rakuten

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnexpectedShape — ответ API не совпал с ожидаемым конвертом.
var ErrUnexpectedShape = errors.New("rakuten: unexpected response shape")

// APIError — ответ API с кодом, отличным от 200.
type APIError struct {
	StatusCode  int
	Code        string // поле error из тела ответа
	Description string // поле error_description
	Body        string // сырое тело, если его не удалось разобрать
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("rakuten api error: status %d, %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("rakuten api error: status %d, body: %s", e.StatusCode, e.Body)
}

// ErrorType представляет тип ошибки при работе с Rakuten API.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuthFailed
	ErrTimeout
	ErrNetwork
	ErrRateLimit
	ErrBadRequest
	ErrShape
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	case ErrBadRequest:
		return "bad_request"
	case ErrShape:
		return "unexpected_shape"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrAuthFailed:
		return "applicationId is missing or invalid. Check RAKUTEN_APP_ID."
	case ErrTimeout:
		return "Rakuten API did not respond in time."
	case ErrNetwork:
		return "Rakuten API is unreachable. Check the network connection."
	case ErrRateLimit:
		return "Too many requests for this applicationId. Try again later."
	case ErrBadRequest:
		return "Rakuten API rejected the request parameters."
	case ErrShape:
		return "Rakuten API returned a response in an unexpected format."
	default:
		return "Unknown error while calling Rakuten API."
	}
}

// ClassifyError классифицирует ошибку по типу для диагностики в CLI.
//
// Типизированные ошибки (APIError, ErrUnexpectedShape) разбираются точно,
// транспортные — по тексту.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	if errors.Is(err, ErrUnexpectedShape) {
		return ErrShape
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return ErrAuthFailed
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return ErrRateLimit
		case apiErr.StatusCode == http.StatusBadRequest:
			// Rakuten отвечает 400 wrong_parameter и на пустой applicationId
			if strings.Contains(strings.ToLower(apiErr.Description), "applicationid") {
				return ErrAuthFailed
			}
			return ErrBadRequest
		}
		return ErrUnknown
	}

	errMsgLower := strings.ToLower(err.Error())

	if strings.Contains(errMsgLower, "timeout") ||
		strings.Contains(errMsgLower, "deadline exceeded") {
		return ErrTimeout
	}

	if strings.Contains(errMsgLower, "connection refused") ||
		strings.Contains(errMsgLower, "no such host") {
		return ErrNetwork
	}

	return ErrUnknown
}
