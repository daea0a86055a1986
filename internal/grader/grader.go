package grader

import (
	"context"
	"fmt"
	"log/slog"

	"apigrader/internal/analyzer"
	"apigrader/internal/fetcher"
	"apigrader/internal/report"
	"apigrader/internal/roster"

	"github.com/cheggaaa/pb/v3"
)

// Fetcher - источник результатов опроса API студента
type Fetcher interface {
	Fetch(ctx context.Context, baseURL string) fetcher.Results
}

// Grader - проверяет студентов по списку, строго по очереди
type Grader struct {
	fetcher   Fetcher
	progress  bool
	onStudent func(index int, row report.StudentRow)
}

// NewGrader - создает новый инстанс грейдера
func NewGrader(opts ...Option) *Grader {
	g := &Grader{}
	for _, opt := range opts {
		opt(g)
	}
	if g.fetcher == nil {
		g.fetcher = fetcher.New()
	}
	return g
}

// Option - опция грейдера
type Option func(*Grader)

// WithFetcher - задает источник результатов опроса
func WithFetcher(f Fetcher) Option { return func(g *Grader) { g.fetcher = f } }

// WithProgressBar - включает прогресс-бар в stderr
func WithProgressBar(enabled bool) Option { return func(g *Grader) { g.progress = enabled } }

// WithOnStudent - колбэк после проверки каждого студента
func WithOnStudent(fn func(index int, row report.StudentRow)) Option {
	return func(g *Grader) { g.onStudent = fn }
}

// GradeStudent - опрос, проверка и строка отчета для одного студента
func (g *Grader) GradeStudent(ctx context.Context, entry roster.Entry) report.StudentRow {
	results := g.fetcher.Fetch(ctx, entry.BaseURL)
	outcome := analyzer.Analyze(results)
	return report.NewStudentRow(entry.StudentName, entry.BaseURL, results, outcome)
}

// ProcessRoster - проверяет всех студентов в порядке списка. Количество строк
// равно количеству записей; при отмене контекста возвращаются уже готовые строки и ошибка,
// студент, опрос которого прервала отмена, в них не попадает.
func (g *Grader) ProcessRoster(ctx context.Context, entries []roster.Entry) ([]report.StudentRow, error) {
	var bar *pb.ProgressBar
	if g.progress {
		bar = pb.Simple.Start(len(entries))
		defer bar.Finish()
	}

	rows := make([]report.StudentRow, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return rows, fmt.Errorf("grading stopped after %d of %d students: %w", i, len(entries), err)
		}

		log := slog.InfoContext
		if bar != nil {
			log = slog.DebugContext
		}
		log(ctx, "processing student", "student", entry.StudentName, "url", entry.BaseURL)

		row := g.GradeStudent(ctx, entry)
		if err := ctx.Err(); err != nil {
			// опрос прерван: строка собрана из ошибок отмены, а не из ответов студента
			return rows, fmt.Errorf("grading stopped after %d of %d students: %w", i, len(entries), err)
		}
		rows = append(rows, row)
		if g.onStudent != nil {
			g.onStudent(i, row)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return rows, nil
}

// GradeRoster - формирует сводный отчет по списку
func (g *Grader) GradeRoster(ctx context.Context, entries []roster.Entry) (report.Summary, error) {
	rows, err := g.ProcessRoster(ctx, entries)
	return report.Summary{Rows: rows}, err
}
