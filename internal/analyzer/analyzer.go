package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"apigrader/internal/endpoints"
	"apigrader/internal/fetcher"
)

// Маркеры результата в тексте утверждений
const (
	PassMarker = "PASS"
	FailMarker = "FAIL"
)

// NotAvailable - заглушка для эндпоинта, которого нет в результатах
const NotAvailable = "N/A"

// Grade - итоговая оценка студента
type Grade string

const (
	GradePass Grade = "Pass"
	GradeFail Grade = "Fail"
)

// Statement - одно утверждение проверки
type Statement struct {
	Rule    string
	Passed  bool
	Message string
}

func (s Statement) String() string {
	if s.Passed {
		return PassMarker + ": " + s.Message
	}
	return FailMarker + ": " + s.Message
}

// Outcome - упорядоченный список утверждений по всем правилам
type Outcome struct {
	Statements []Statement
}

// Grade - Pass, только если прошли все утверждения
func (o Outcome) Grade() Grade {
	if len(o.Statements) == 0 {
		return GradeFail
	}
	for _, s := range o.Statements {
		if !s.Passed {
			return GradeFail
		}
	}
	return GradePass
}

// Lines - утверждения в текстовом виде
func (o Outcome) Lines() []string {
	lines := make([]string, len(o.Statements))
	for i, s := range o.Statements {
		lines[i] = s.String()
	}
	return lines
}

// Joined - утверждения одной строкой через "; "
func (o Outcome) Joined() string {
	return strings.Join(o.Lines(), "; ")
}

// Failed - только проваленные утверждения
func (o Outcome) Failed() []Statement {
	var failed []Statement
	for _, s := range o.Statements {
		if !s.Passed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Имена правил
const (
	RuleCategoriesCount    = "categories_count"
	RuleCategoryShape      = "category_shape"
	RuleBooksInCategory    = "books_in_category_count"
	RuleSuggestedBooks     = "suggested_books_count"
	RuleSuggestedBooksLim2 = "suggested_books_limit_2_count"
)

// Analyze - применяет все правила к результатам опроса. Правила независимы
// и выполняются все, даже если предыдущие провалились.
func Analyze(results fetcher.Results) Outcome {
	var out Outcome
	add := func(s ...Statement) { out.Statements = append(out.Statements, s...) }

	add(checkCount(results, RuleCategoriesCount, endpoints.KeyCategories, atLeast(4)))
	add(checkCategoryShapes(results)...)
	add(checkCount(results, RuleBooksInCategory, endpoints.KeyBooksInCategory, atLeast(4)))
	add(checkCount(results, RuleSuggestedBooks, endpoints.KeySuggestedBooks, exactly(3)))
	add(checkCount(results, RuleSuggestedBooksLim2, endpoints.KeySuggestedBooksLimit2, exactly(2)))

	return out
}

type countReq struct {
	desc string
	ok   func(n int) bool
}

func atLeast(n int) countReq {
	return countReq{
		desc: fmt.Sprintf("at least %d", n),
		ok:   func(got int) bool { return got >= n },
	}
}

func exactly(n int) countReq {
	return countReq{
		desc: fmt.Sprintf("exactly %d", n),
		ok:   func(got int) bool { return got == n },
	}
}

func checkCount(results fetcher.Results, rule, key string, req countReq) Statement {
	label := labelFor(key)
	items, ok := listValue(results, key)
	if !ok {
		return Statement{
			Rule:    rule,
			Message: fmt.Sprintf("%s is not a list (%s), expected %s items", label, describe(results, key), req.desc),
		}
	}
	if !req.ok(len(items)) {
		return Statement{
			Rule:    rule,
			Message: fmt.Sprintf("%s returned %d items, expected %s", label, len(items), req.desc),
		}
	}
	return Statement{
		Rule:    rule,
		Passed:  true,
		Message: fmt.Sprintf("%s returned %d items (%s required)", label, len(items), req.desc),
	}
}

func checkCategoryShapes(results fetcher.Results) []Statement {
	items, ok := listValue(results, endpoints.KeyCategories)
	if !ok {
		return []Statement{{
			Rule:    RuleCategoryShape,
			Message: fmt.Sprintf("cannot check category fields, %s is not a list", labelFor(endpoints.KeyCategories)),
		}}
	}

	statements := make([]Statement, 0, len(items))
	for i, item := range items {
		s := Statement{Rule: RuleCategoryShape}
		switch {
		case validCategory(item):
			s.Passed = true
			s.Message = fmt.Sprintf("category #%d has categoryId and name", i+1)
		default:
			s.Message = fmt.Sprintf("category #%d %s", i+1, shapeProblem(item))
		}
		statements = append(statements, s)
	}
	return statements
}

func shapeProblem(item any) string {
	obj, ok := item.(map[string]any)
	if !ok {
		return "is not an object"
	}
	var missing []string
	for _, key := range []string{"categoryId", "name"} {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return "does not match the category shape"
	}
	sort.Strings(missing)
	return "is missing " + strings.Join(missing, " and ")
}

func listValue(results fetcher.Results, key string) ([]any, bool) {
	res, ok := results.ByKey(key)
	if !ok || !res.OK() {
		return nil, false
	}
	items, ok := res.Data.([]any)
	return items, ok
}

// describe - что на самом деле вернул эндпоинт, для текста ошибки
func describe(results fetcher.Results, key string) string {
	res, ok := results.ByKey(key)
	if !ok {
		return NotAvailable
	}
	if res.Err != nil {
		return res.Err.Error()
	}
	switch res.Data.(type) {
	case map[string]any:
		return "got an object"
	case nil:
		return "got null"
	case string:
		return "got a string"
	case json.Number, float64:
		return "got a number"
	case bool:
		return "got a boolean"
	}
	return fmt.Sprintf("got %T", res.Data)
}

func labelFor(key string) string {
	if ep, ok := endpoints.ByKey(key); ok {
		return ep.ID
	}
	return key
}
