package endpoints

import "strings"

// Endpoint - проверяемый эндпоинт студенческого API
type Endpoint struct {
	// ID совпадает с относительным путем и используется как имя колонки отчета
	ID string
	// Key - короткое имя для правил проверки
	Key string
}

// Ключи эндпоинтов
const (
	KeyCategories           = "categories"
	KeyCategory             = "category"
	KeyBook                 = "book"
	KeyBooksInCategory      = "books_in_category"
	KeySuggestedBooks       = "suggested_books"
	KeySuggestedBooksLimit2 = "suggested_books_limit_2"
)

var all = []Endpoint{
	{ID: "api/categories", Key: KeyCategories},
	{ID: "api/categories/1001", Key: KeyCategory},
	{ID: "api/books/1001", Key: KeyBook},
	{ID: "api/categories/1001/books", Key: KeyBooksInCategory},
	{ID: "api/categories/1001/suggested-books", Key: KeySuggestedBooks},
	{ID: "api/categories/1001/suggested-books?limit=2", Key: KeySuggestedBooksLimit2},
}

// All - возвращает фиксированный набор эндпоинтов в порядке опроса
func All() []Endpoint {
	out := make([]Endpoint, len(all))
	copy(out, all)
	return out
}

// IDs - идентификаторы эндпоинтов в порядке опроса
func IDs() []string {
	ids := make([]string, len(all))
	for i, ep := range all {
		ids[i] = ep.ID
	}
	return ids
}

// ByKey - ищет эндпоинт по короткому ключу
func ByKey(key string) (Endpoint, bool) {
	for _, ep := range all {
		if ep.Key == key {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Lookup - ищет эндпоинт по идентификатору
func Lookup(id string) (Endpoint, bool) {
	for _, ep := range all {
		if ep.ID == id {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// URL - склеивает базовый адрес студента и путь эндпоинта
func URL(base string, ep Endpoint) string {
	return strings.TrimRight(base, "/") + "/" + ep.ID
}
