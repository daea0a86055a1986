package analyzer

import (
	"strings"
	"testing"

	"apigrader/internal/endpoints"
	"apigrader/internal/fetcher"
	"apigrader/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func result(key string, data any, err error) fetcher.Result {
	ep, _ := endpoints.ByKey(key)
	return fetcher.Result{Endpoint: ep, Data: data, Err: err}
}

func validResults() map[string]fetcher.Result {
	api := testutil.ValidAPI()
	return map[string]fetcher.Result{
		endpoints.KeyCategories:           result(endpoints.KeyCategories, api.Categories, nil),
		endpoints.KeyCategory:             result(endpoints.KeyCategory, api.Category, nil),
		endpoints.KeyBook:                 result(endpoints.KeyBook, api.Book, nil),
		endpoints.KeyBooksInCategory:      result(endpoints.KeyBooksInCategory, api.BooksInCategory, nil),
		endpoints.KeySuggestedBooks:       result(endpoints.KeySuggestedBooks, api.SuggestedBooks, nil),
		endpoints.KeySuggestedBooksLimit2: result(endpoints.KeySuggestedBooksLimit2, api.SuggestedLimit2, nil),
	}
}

func collect(m map[string]fetcher.Result) fetcher.Results {
	var items []fetcher.Result
	for _, ep := range endpoints.All() {
		if r, ok := m[ep.Key]; ok {
			items = append(items, r)
		}
	}
	return fetcher.NewResults(items...)
}

func rules(o Outcome) []string {
	out := make([]string, len(o.Statements))
	for i, s := range o.Statements {
		out[i] = s.Rule
	}
	return out
}

func TestAnalyzeAllPass(t *testing.T) {
	outcome := Analyze(collect(validResults()))

	require.Equal(t, GradePass, outcome.Grade())
	require.Empty(t, outcome.Failed())

	expectedRules := []string{
		RuleCategoriesCount,
		RuleCategoryShape, RuleCategoryShape, RuleCategoryShape, RuleCategoryShape,
		RuleBooksInCategory,
		RuleSuggestedBooks,
		RuleSuggestedBooksLim2,
	}
	if diff := cmp.Diff(expectedRules, rules(outcome)); diff != "" {
		t.Fatalf("unexpected rules (-want +got):\n%s", diff)
	}
	for _, line := range outcome.Lines() {
		require.True(t, strings.HasPrefix(line, PassMarker+": "), line)
	}
}

func TestAnalyzeTooFewCategories(t *testing.T) {
	m := validResults()
	m[endpoints.KeyCategories] = result(endpoints.KeyCategories, testutil.Categories(2), nil)

	outcome := Analyze(collect(m))
	require.Equal(t, GradeFail, outcome.Grade())

	failed := outcome.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, RuleCategoriesCount, failed[0].Rule)
	require.Contains(t, failed[0].String(), "FAIL: api/categories returned 2 items, expected at least 4")

	// форма элементов все равно проверяется
	require.Len(t, outcome.Statements, 1+2+3)
}

func TestAnalyzeMalformedCategory(t *testing.T) {
	m := validResults()
	cats := testutil.Categories(5)
	cats[1] = map[string]any{"id": 7, "name": "Poetry"}
	cats[3] = "Fiction"
	m[endpoints.KeyCategories] = result(endpoints.KeyCategories, cats, nil)

	outcome := Analyze(collect(m))
	require.Equal(t, GradeFail, outcome.Grade())

	var messages []string
	for _, s := range outcome.Failed() {
		messages = append(messages, s.Message)
	}
	expected := []string{
		"category #2 is missing categoryId",
		"category #4 is not an object",
	}
	if diff := cmp.Diff(expected, messages); diff != "" {
		t.Fatalf("unexpected failures (-want +got):\n%s", diff)
	}
}

func TestAnalyzeCategoriesNotAList(t *testing.T) {
	m := validResults()
	m[endpoints.KeyCategories] = result(endpoints.KeyCategories, nil, &fetcher.HTTPError{Status: 500, Reason: "Internal Server Error"})

	outcome := Analyze(collect(m))
	require.Equal(t, GradeFail, outcome.Grade())

	failed := outcome.Failed()
	require.Len(t, failed, 2)
	require.Equal(t, RuleCategoriesCount, failed[0].Rule)
	require.Contains(t, failed[0].Message, "HTTP Error: 500 Internal Server Error")
	require.Equal(t, RuleCategoryShape, failed[1].Rule)
	require.Equal(t, "cannot check category fields, api/categories is not a list", failed[1].Message)
}

func TestAnalyzeObjectInsteadOfList(t *testing.T) {
	m := validResults()
	m[endpoints.KeyBooksInCategory] = result(endpoints.KeyBooksInCategory, map[string]any{"content": testutil.Books(5)}, nil)

	outcome := Analyze(collect(m))
	failed := outcome.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, RuleBooksInCategory, failed[0].Rule)
	require.Contains(t, failed[0].Message, "got an object")
}

func TestAnalyzeExactCounts(t *testing.T) {
	m := validResults()
	m[endpoints.KeySuggestedBooks] = result(endpoints.KeySuggestedBooks, testutil.Books(4), nil)
	m[endpoints.KeySuggestedBooksLimit2] = result(endpoints.KeySuggestedBooksLimit2, testutil.Books(3), nil)

	outcome := Analyze(collect(m))
	require.Equal(t, []string{RuleSuggestedBooks, RuleSuggestedBooksLim2}, func() []string {
		var r []string
		for _, s := range outcome.Failed() {
			r = append(r, s.Rule)
		}
		return r
	}())
}

func TestAnalyzeMissingEndpoint(t *testing.T) {
	m := validResults()
	delete(m, endpoints.KeySuggestedBooks)

	outcome := Analyze(collect(m))
	failed := outcome.Failed()
	require.Len(t, failed, 1)
	require.Contains(t, failed[0].Message, NotAvailable)
}

func TestAnalyzeUnreachable(t *testing.T) {
	m := map[string]fetcher.Result{}
	for _, ep := range endpoints.All() {
		m[ep.Key] = result(ep.Key, nil, &fetcher.RequestError{Message: "connection refused"})
	}

	outcome := Analyze(collect(m))
	require.Equal(t, GradeFail, outcome.Grade())
	// 4 правила количества + одна общая ошибка формы категорий
	require.Len(t, outcome.Statements, 5)
	require.Len(t, outcome.Failed(), 5)
}

func TestOutcomeJoined(t *testing.T) {
	o := Outcome{Statements: []Statement{
		{Passed: true, Message: "a"},
		{Passed: false, Message: "b"},
	}}
	require.Equal(t, "PASS: a; FAIL: b", o.Joined())
	require.Equal(t, GradeFail, o.Grade())
	require.Equal(t, GradeFail, Outcome{}.Grade())
}
