package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Обязательные колонки входного файла
const (
	ColumnStudentName = "student_name"
	ColumnBaseURL     = "base_url"
)

// ErrMissingColumn - во входном файле нет обязательной колонки
var ErrMissingColumn = errors.New("missing required column")

// Entry - одна строка списка студентов
type Entry struct {
	StudentName string
	BaseURL     string
}

// Read - читает список студентов из CSV с заголовком.
// Лишние колонки игнорируются, порядок строк сохраняется.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read roster header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	nameIdx, urlIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch col {
		case ColumnStudentName:
			nameIdx = i
		case ColumnBaseURL:
			urlIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColumnStudentName)
	}
	if urlIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColumnBaseURL)
	}

	var entries []Entry
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		entries = append(entries, Entry{
			StudentName: field(rec, nameIdx),
			BaseURL:     field(rec, urlIdx),
		})
	}
	return entries, nil
}

// ReadFile - читает список студентов из файла
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func field(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
