package report

import (
	"fmt"
	"strings"

	"apigrader/internal/analyzer"
	"apigrader/internal/endpoints"
	"apigrader/internal/fetcher"
)

// Названия колонок отчета
const (
	ColumnStudentName       = "student_name"
	ColumnBaseURL           = "base_url"
	ColumnValidationResults = "Validation Results"
	ColumnFinalGrade        = "Final Grade"
)

// EndpointValue - значение эндпоинта в текстовом виде
type EndpointValue struct {
	ID   string
	Text string
	OK   bool
}

// StudentRow - строка отчета по одному студенту
type StudentRow struct {
	StudentName string
	BaseURL     string
	Values      []EndpointValue
	Statements  []analyzer.Statement
	Grade       analyzer.Grade
}

// NewStudentRow - собирает строку отчета из результатов опроса и проверки
func NewStudentRow(name, baseURL string, results fetcher.Results, outcome analyzer.Outcome) StudentRow {
	row := StudentRow{
		StudentName: name,
		BaseURL:     baseURL,
		Statements:  append([]analyzer.Statement(nil), outcome.Statements...),
		Grade:       outcome.Grade(),
	}
	for _, id := range endpoints.IDs() {
		v := EndpointValue{ID: id, Text: analyzer.NotAvailable}
		if res, ok := results.Get(id); ok {
			v.Text = Stringify(res.Value())
			v.OK = res.OK()
		}
		row.Values = append(row.Values, v)
	}
	return row
}

// Value - текст значения эндпоинта, "N/A" если его нет
func (r StudentRow) Value(id string) string {
	for _, v := range r.Values {
		if v.ID == id {
			return v.Text
		}
	}
	return analyzer.NotAvailable
}

// ValidationResults - утверждения проверки через "; "
func (r StudentRow) ValidationResults() string {
	return analyzer.Outcome{Statements: r.Statements}.Joined()
}

// FailedStatements - проваленные утверждения
func (r StudentRow) FailedStatements() []analyzer.Statement {
	return analyzer.Outcome{Statements: r.Statements}.Failed()
}

// Passed - студент получил Pass
func (r StudentRow) Passed() bool {
	return r.Grade == analyzer.GradePass
}

// Columns - заголовок сводной таблицы
func Columns() []string {
	cols := []string{ColumnStudentName}
	cols = append(cols, endpoints.IDs()...)
	return append(cols, ColumnValidationResults, ColumnFinalGrade)
}

// Record - строка сводной таблицы в порядке Columns()
func (r StudentRow) Record() []string {
	rec := []string{r.StudentName}
	for _, id := range endpoints.IDs() {
		rec = append(rec, r.Value(id))
	}
	return append(rec, r.ValidationResults(), string(r.Grade))
}

// Summary - сводный отчет по всему списку студентов
type Summary struct {
	Rows []StudentRow
}

// Passed - количество студентов с Pass
func (s Summary) Passed() int {
	n := 0
	for _, r := range s.Rows {
		if r.Passed() {
			n++
		}
	}
	return n
}

// Failed - количество студентов с Fail
func (s Summary) Failed() int {
	return len(s.Rows) - s.Passed()
}

var pathSafe = strings.NewReplacer("/", "_", "\\", "_")

// FileName - имя файла студента; разделители пути заменяются на "_"
func FileName(studentName string) string {
	return pathSafe.Replace(studentName) + ".txt"
}

// FileNames - имена файлов для строк сводки в порядке реестра; повторяющиеся имена
// получают суффикс: "alice.txt", "alice (2).txt"
func FileNames(rows []StudentRow) []string {
	names := make([]string, len(rows))
	// регистр не учитывается: архив могут распаковать на macOS или Windows
	taken := make(map[string]bool, len(rows))
	for i, row := range rows {
		base := pathSafe.Replace(row.StudentName)
		name := base + ".txt"
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s (%d).txt", base, n)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}
