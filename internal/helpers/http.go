package helpers

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent - User-Agent, с которым грейдер ходит в студенческие API
const DefaultUserAgent = "apigrader/1.0"

// NewClient - создает HTTP-клиент для опроса эндпоинтов.
// timeout == 0 оставляет поведение библиотеки по умолчанию (без ограничения).
func NewClient(userAgent string, timeout time.Duration) *resty.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}
