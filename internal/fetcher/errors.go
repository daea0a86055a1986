package fetcher

import "fmt"

// HTTPError - эндпоинт ответил статусом вне диапазона 200-299
type HTTPError struct {
	Status int
	Reason string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error: %d %s", e.Status, e.Reason)
}

// RequestError - запрос не дошел до сервера (DNS, таймаут, отказ в соединении, кривой URL)
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return "Request Error: " + e.Message
}

// ParseError - сервер ответил 2xx, но тело не является JSON
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "Parse Error: " + e.Message
}
