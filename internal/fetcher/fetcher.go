package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"apigrader/internal/endpoints"
	"apigrader/internal/helpers"

	"github.com/go-resty/resty/v2"
)

// Result - результат опроса одного эндпоинта.
// Заполнено ровно одно из полей Data / Err.
type Result struct {
	Endpoint endpoints.Endpoint
	URL      string
	Data     any
	Err      error
}

// OK - эндпоинт вернул разобранный JSON
func (r Result) OK() bool {
	return r.Err == nil
}

// Value - разобранный JSON либо дескриптор ошибки
func (r Result) Value() any {
	if r.Err != nil {
		return r.Err
	}
	return r.Data
}

// Results - результаты опроса всех эндпоинтов одного студента
type Results struct {
	items []Result
}

// NewResults - собирает набор результатов в заданном порядке
func NewResults(items ...Result) Results {
	out := make([]Result, len(items))
	copy(out, items)
	return Results{items: out}
}

// All - результаты в порядке опроса
func (rs Results) All() []Result {
	out := make([]Result, len(rs.items))
	copy(out, rs.items)
	return out
}

// Len - количество результатов
func (rs Results) Len() int {
	return len(rs.items)
}

// Get - результат по идентификатору эндпоинта
func (rs Results) Get(id string) (Result, bool) {
	for _, r := range rs.items {
		if r.Endpoint.ID == id {
			return r, true
		}
	}
	return Result{}, false
}

// ByKey - результат по короткому ключу эндпоинта
func (rs Results) ByKey(key string) (Result, bool) {
	for _, r := range rs.items {
		if r.Endpoint.Key == key {
			return r, true
		}
	}
	return Result{}, false
}

// Fetcher - последовательно опрашивает эндпоинты студенческого API
type Fetcher struct {
	client    *resty.Client
	endpoints []endpoints.Endpoint
}

// Option - опция фетчера
type Option func(*Fetcher)

// WithClient - задает HTTP-клиент
func WithClient(c *resty.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithEndpoints - подменяет набор эндпоинтов
func WithEndpoints(eps []endpoints.Endpoint) Option {
	return func(f *Fetcher) { f.endpoints = eps }
}

// New - создает новый инстанс фетчера
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		endpoints: endpoints.All(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = helpers.NewClient("", 0)
	}
	return f
}

// Fetch - опрашивает все эндпоинты по очереди. Ошибки не прерывают опрос,
// а сохраняются как дескрипторы в результатах.
func (f *Fetcher) Fetch(ctx context.Context, baseURL string) Results {
	items := make([]Result, 0, len(f.endpoints))
	for _, ep := range f.endpoints {
		items = append(items, f.fetchOne(ctx, baseURL, ep))
	}
	return Results{items: items}
}

func (f *Fetcher) fetchOne(ctx context.Context, baseURL string, ep endpoints.Endpoint) Result {
	fullURL := endpoints.URL(baseURL, ep)
	res := Result{Endpoint: ep, URL: fullURL}

	slog.DebugContext(ctx, "fetching endpoint", "url", fullURL)
	resp, err := f.client.R().SetContext(ctx).Get(fullURL)
	if err != nil {
		res.Err = &RequestError{Message: err.Error()}
		slog.DebugContext(ctx, "request failed", "url", fullURL, "err", err)
		return res
	}

	if !resp.IsSuccess() {
		res.Err = &HTTPError{Status: resp.StatusCode(), Reason: reasonPhrase(resp)}
		slog.DebugContext(ctx, "unexpected status", "url", fullURL, "status", resp.StatusCode())
		return res
	}

	data, err := parseBody(resp.Body())
	if err != nil {
		res.Err = err
		return res
	}
	res.Data = data
	return res
}

func parseBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ParseError{Message: "empty response body"}
	}
	data, err := decodeJSON(body)
	if err != nil {
		if helpers.LooksLikeHTML(body) {
			if title := helpers.PageTitle(body); title != "" {
				return nil, &ParseError{Message: fmt.Sprintf("got an HTML page %q instead of JSON", title)}
			}
			return nil, &ParseError{Message: "got an HTML page instead of JSON"}
		}
		return nil, &ParseError{Message: err.Error()}
	}
	return data, nil
}

// decodeJSON - разбирает тело целиком; числа остаются json.Number,
// чтобы идентификаторы больше 2^53 не округлялись
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the top-level JSON value")
	}
	return data, nil
}

// reasonPhrase - текстовая часть статуса ("Not Found" из "404 Not Found")
func reasonPhrase(resp *resty.Response) string {
	code := resp.StatusCode()
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}
