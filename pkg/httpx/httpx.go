package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout ограничивает любой вызов платформенного API, чтобы зависший
// запрос не держал слот воркера бесконечно.
const DefaultTimeout = 30 * time.Second

// NewClient возвращает http-клиент с таймаутом для платформенных API.
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// RetryAfterSeconds парсит заголовок Retry-After как целое число секунд.
// Отсутствующее или невалидное значение возвращается как nil: дефолт backoff
// выбирает вызывающая сторона, а не мы.
func RetryAfterSeconds(h http.Header) *int {
	v := h.Get("Retry-After")
	if v == "" {
		return nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return nil
	}
	return &seconds
}

// ErrorMessage достаёт человекочитаемое сообщение из тела ошибки провайдера:
// сначала error.message, потом message, иначе fallback.
func ErrorMessage(body []byte, fallback string) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fallback
}
