package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"apigrader/internal/report"

	_ "modernc.org/sqlite"
)

// Schema - схема базы прогонов проверки
const Schema = `
create table if not exists run (
	id integer primary key autoincrement,
	started_at integer not null,
	students integer not null,
	passed integer not null
);

create table if not exists student_result (
	run_id integer not null references run(id) on delete cascade,
	position integer not null,
	student_name text not null,
	base_url text not null,
	endpoint_values text not null,
	validation_results text not null,
	grade text not null,
	primary key (run_id, position)
);
`

// Store - хранилище прогонов в SQLite
type Store struct {
	db *sql.DB
}

// Open - открывает (или создает) базу по пути; ":memory:" для базы в памяти
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return Store{}, fmt.Errorf("apply schema: %w", err)
	}
	return Store{db: db}, nil
}

// Close - закрывает базу
func (s Store) Close() error {
	return s.db.Close()
}

// SaveRun - сохраняет прогон целиком в одной транзакции, возвращает id прогона
func (s Store) SaveRun(ctx context.Context, startedAt time.Time, summary report.Summary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"insert into run (started_at, students, passed) values (?, ?, ?)",
		startedAt.Unix(), len(summary.Rows), summary.Passed(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, row := range summary.Rows {
		values := make(map[string]string, len(row.Values))
		for _, v := range row.Values {
			values[v.ID] = v.Text
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			`insert into student_result
			(run_id, position, student_name, base_url, endpoint_values, validation_results, grade)
			values (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, row.StudentName, row.BaseURL, string(encoded), row.ValidationResults(), string(row.Grade),
		)
		if err != nil {
			return 0, fmt.Errorf("insert result for %s: %w", row.StudentName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// StoredResult - сохраненная строка прогона
type StoredResult struct {
	StudentName       string
	BaseURL           string
	EndpointValues    map[string]string
	ValidationResults string
	Grade             string
}

// Run - строки прогона в исходном порядке
func (s Store) Run(ctx context.Context, runID int64) ([]StoredResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`select student_name, base_url, endpoint_values, validation_results, grade
		from student_result where run_id = ? order by position`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var r StoredResult
		var values string
		if err := rows.Scan(&r.StudentName, &r.BaseURL, &values, &r.ValidationResults, &r.Grade); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(values), &r.EndpointValues); err != nil {
			return nil, fmt.Errorf("decode endpoint values for %s: %w", r.StudentName, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunInfo - сводка по прогону
type RunInfo struct {
	ID        int64
	StartedAt time.Time
	Students  int
	Passed    int
}

// Runs - все прогоны, последние сначала
func (s Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, "select id, started_at, students, passed from run order by id desc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var started int64
		if err := rows.Scan(&info.ID, &started, &info.Students, &info.Passed); err != nil {
			return nil, err
		}
		info.StartedAt = time.Unix(started, 0)
		out = append(out, info)
	}
	return out, rows.Err()
}
