package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

const separatorWidth = 40

// WriteCSV - выгружает сводную таблицу в CSV (UTF-8, с заголовком)
func (s Summary) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range s.Rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("write csv row for %s: %w", row.StudentName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text - отчет студента в текстовом виде: имя, разделитель и поля "key:\n  value\n\n"
func (r StudentRow) Text() string {
	var b strings.Builder
	b.WriteString(r.StudentName)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", separatorWidth))
	b.WriteString("\n")

	field := func(key, value string) {
		fmt.Fprintf(&b, "%s:\n  %s\n\n", key, value)
	}
	field(ColumnBaseURL, r.BaseURL)
	for _, v := range r.Values {
		field(v.ID, v.Text)
	}
	field(ColumnValidationResults, r.ValidationResults())
	field(ColumnFinalGrade, string(r.Grade))
	return b.String()
}

// WriteZip - упаковывает отчеты студентов в архив, по одному файлу на студента
func (s Summary) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	names := FileNames(s.Rows)
	for i, row := range s.Rows {
		f, err := zw.Create(names[i])
		if err != nil {
			return fmt.Errorf("create zip entry for %s: %w", row.StudentName, err)
		}
		if _, err := io.WriteString(f, row.Text()); err != nil {
			return fmt.Errorf("write zip entry for %s: %w", row.StudentName, err)
		}
	}
	return zw.Close()
}

// WriteStudentFiles - сохраняет отчеты студентов отдельными файлами в каталог
func (s Summary) WriteStudentFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	names := FileNames(s.Rows)
	for i, row := range s.Rows {
		path := filepath.Join(dir, names[i])
		if err := os.WriteFile(path, []byte(row.Text()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Artifacts - пути к выгруженным файлам
type Artifacts struct {
	CSV         string
	Zip         string
	StudentsDir string
}

// Export - пишет CSV, каталог с текстовыми отчетами и архив в outDir
func (s Summary) Export(outDir, csvName, zipName string) (Artifacts, error) {
	art := Artifacts{
		CSV:         filepath.Join(outDir, csvName),
		Zip:         filepath.Join(outDir, zipName),
		StudentsDir: filepath.Join(outDir, "students"),
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return art, fmt.Errorf("create %s: %w", outDir, err)
	}

	if err := writeFile(art.CSV, s.WriteCSV); err != nil {
		return art, err
	}
	if err := s.WriteStudentFiles(art.StudentsDir); err != nil {
		return art, err
	}
	if err := writeFile(art.Zip, s.WriteZip); err != nil {
		return art, err
	}
	return art, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
