package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// StudentAPI - поддельное студенческое API для тестов.
// Nil-поле означает, что эндпоинт отвечает 404.
type StudentAPI struct {
	Categories      any
	Category        any
	Book            any
	BooksInCategory any
	SuggestedBooks  any
	SuggestedLimit2 any
	// Raw - сырые ответы по пути (без ведущего "/"), имеют приоритет
	Raw map[string]string
}

func books(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"bookId":     1001 + i,
			"title":      fmt.Sprintf("Book %d", i+1),
			"categoryId": 1001,
		}
	}
	return out
}

// Categories - список категорий заданной длины с корректными ключами
func Categories(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"categoryId": 1001 + i,
			"name":       fmt.Sprintf("Category %d", i+1),
		}
	}
	return out
}

// Books - список книг заданной длины
func Books(n int) []any {
	return books(n)
}

// ValidAPI - API, которое проходит все проверки
func ValidAPI() StudentAPI {
	return StudentAPI{
		Categories:      Categories(4),
		Category:        map[string]any{"categoryId": 1001, "name": "Category 1"},
		Book:            books(1)[0],
		BooksInCategory: books(5),
		SuggestedBooks:  books(3),
		SuggestedLimit2: books(2),
	}
}

// Handler - http.Handler, отвечающий на шесть проверяемых путей
func (a StudentAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	serve := func(path string, value any) {
		mux.HandleFunc("GET /"+path, func(w http.ResponseWriter, r *http.Request) {
			a.write(w, path, value)
		})
	}
	serve("api/categories", a.Categories)
	serve("api/categories/1001", a.Category)
	serve("api/books/1001", a.Book)
	serve("api/categories/1001/books", a.BooksInCategory)
	mux.HandleFunc("GET /api/categories/1001/suggested-books", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") == "2" {
			a.write(w, "api/categories/1001/suggested-books?limit=2", a.SuggestedLimit2)
			return
		}
		a.write(w, "api/categories/1001/suggested-books", a.SuggestedBooks)
	})
	return mux
}

func (a StudentAPI) write(w http.ResponseWriter, path string, value any) {
	if raw, ok := a.Raw[path]; ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(raw))
		return
	}
	if value == nil {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

// NewStudentServer - поднимает поддельное API и закрывает его по завершении теста
func NewStudentServer(t testing.TB, api StudentAPI) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// UnreachableURL - адрес, на котором гарантированно никто не слушает
func UnreachableURL(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
