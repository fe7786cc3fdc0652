// Package results persists one row per executed test combination into a
// local SQLite file. The table is append-only; history survives across
// runs.
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS test_executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_number TEXT,
	test_name TEXT NOT NULL,
	status TEXT NOT NULL,
	execution_time REAL,
	error_message TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	browser TEXT,
	url TEXT,
	language TEXT,
	environment TEXT,
	screenshots_mode TEXT,
	video_enabled TEXT,
	expected_value TEXT,
	actual_value TEXT,
	validation_result TEXT,
	initial_url TEXT,
	pos TEXT,
	header_link TEXT,
	footer_link TEXT,
	link_name TEXT,
	language_mode TEXT,
	validation_message TEXT
)`

// Execution is one test_executions row.
type Execution struct {
	ID                int64
	CaseNumber        string
	TestName          string
	Status            string
	ExecutionTime     float64
	ErrorMessage      string
	Timestamp         time.Time
	Browser           string
	URL               string
	Language          string
	Environment       string
	ScreenshotsMode   string
	VideoEnabled      string
	ExpectedValue     string
	ActualValue       string
	ValidationResult  string
	InitialURL        string
	POS               string
	HeaderLink        string
	FooterLink        string
	LinkName          string
	LanguageMode      string
	ValidationMessage string
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and ensures the table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create test_executions: %w", err)
	}
	return &Store{db: db}, nil
}

// Insert appends one execution row. The timestamp column defaults in SQL.
func (s *Store) Insert(e Execution) error {
	_, err := s.db.Exec(`
		INSERT INTO test_executions
		(case_number, test_name, status, execution_time, error_message, browser, url, language,
		 environment, screenshots_mode, video_enabled, expected_value, actual_value,
		 validation_result, initial_url, pos, header_link, footer_link, link_name,
		 language_mode, validation_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CaseNumber, e.TestName, e.Status, e.ExecutionTime, e.ErrorMessage, e.Browser,
		e.URL, e.Language, e.Environment, e.ScreenshotsMode, e.VideoEnabled,
		e.ExpectedValue, e.ActualValue, e.ValidationResult, e.InitialURL, e.POS,
		e.HeaderLink, e.FooterLink, e.LinkName, e.LanguageMode, e.ValidationMessage)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// All returns every row, most recent first.
func (s *Store) All() ([]Execution, error) {
	return s.query("SELECT " + columns + " FROM test_executions ORDER BY timestamp DESC, id DESC")
}

// Latest returns the n most recent rows.
func (s *Store) Latest(n int) ([]Execution, error) {
	return s.query(
		"SELECT "+columns+" FROM test_executions ORDER BY timestamp DESC, id DESC LIMIT ?", n)
}

// FailedCases returns the distinct case numbers whose most recent execution
// failed, supporting last-failed reruns.
func (s *Store) FailedCases() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT case_number FROM test_executions
		WHERE id IN (SELECT MAX(id) FROM test_executions GROUP BY case_number)
		AND status = 'FAILED'`)
	if err != nil {
		return nil, fmt.Errorf("query failed cases: %w", err)
	}
	defer rows.Close()
	var cases []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan failed case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

const columns = `id, case_number, test_name, status, execution_time,
	COALESCE(error_message, ''), timestamp, COALESCE(browser, ''), COALESCE(url, ''),
	COALESCE(language, ''), COALESCE(environment, ''), COALESCE(screenshots_mode, ''),
	COALESCE(video_enabled, ''), COALESCE(expected_value, ''), COALESCE(actual_value, ''),
	COALESCE(validation_result, ''), COALESCE(initial_url, ''), COALESCE(pos, ''),
	COALESCE(header_link, ''), COALESCE(footer_link, ''), COALESCE(link_name, ''),
	COALESCE(language_mode, ''), COALESCE(validation_message, '')`

func (s *Store) query(q string, args ...any) ([]Execution, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		var e Execution
		if err := rows.Scan(
			&e.ID, &e.CaseNumber, &e.TestName, &e.Status, &e.ExecutionTime,
			&e.ErrorMessage, &e.Timestamp, &e.Browser, &e.URL, &e.Language,
			&e.Environment, &e.ScreenshotsMode, &e.VideoEnabled, &e.ExpectedValue,
			&e.ActualValue, &e.ValidationResult, &e.InitialURL, &e.POS,
			&e.HeaderLink, &e.FooterLink, &e.LinkName, &e.LanguageMode,
			&e.ValidationMessage,
		); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
