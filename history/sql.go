package history

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nachoal/lingo-tutor-go/assessment"
)

// SQLStore keeps assessment results in a SQL database. For mysql the DSN
// must include parseTime=true.
type SQLStore struct {
	db *sqlx.DB
}

type assessmentRow struct {
	ID           string    `db:"id"`
	Fluency      int       `db:"fluency"`
	Vocabulary   int       `db:"vocabulary"`
	Grammar      int       `db:"grammar"`
	Speed        int       `db:"speed"`
	Text         string    `db:"body"`
	TakenAt      time.Time `db:"taken_at"`
	Language     string    `db:"language"`
	Scenario     string    `db:"scenario"`
	ScenarioName string    `db:"scenario_name"`
}

const createAssessments = `
	CREATE TABLE IF NOT EXISTS assessments (
		id VARCHAR(64) PRIMARY KEY,
		fluency INTEGER NOT NULL,
		vocabulary INTEGER NOT NULL,
		grammar INTEGER NOT NULL,
		speed INTEGER NOT NULL,
		body TEXT NOT NULL,
		taken_at TIMESTAMP NOT NULL,
		language VARCHAR(32) NOT NULL,
		scenario VARCHAR(64) NOT NULL,
		scenario_name VARCHAR(128) NOT NULL
	)
`

// NewSQLStore connects to the database and creates the schema
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("history.dsn is required for driver %s", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers, and every :memory:
		// connection is its own database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec(createAssessments); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create assessments table: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Save inserts result
func (s *SQLStore) Save(ctx context.Context, result *assessment.Result) error {
	if result.Date.IsZero() {
		result.Date = time.Now()
	}
	if result.ID == "" {
		result.ID = newID(result.Date)
	}

	query := s.db.Rebind(`
		INSERT INTO assessments (
			id, fluency, vocabulary, grammar, speed,
			body, taken_at, language, scenario, scenario_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		result.ID,
		result.Fluency,
		result.Vocabulary,
		result.Grammar,
		result.Speed,
		result.Text,
		result.Date.UTC(),
		result.Language,
		result.Scenario,
		result.ScenarioName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// List returns results newest first
func (s *SQLStore) List(ctx context.Context, language string) ([]assessment.Result, error) {
	var rows []assessmentRow
	var err error
	if language == "" || language == "all" {
		err = s.db.SelectContext(ctx, &rows, "SELECT * FROM assessments ORDER BY taken_at DESC")
	} else {
		err = s.db.SelectContext(ctx, &rows,
			s.db.Rebind("SELECT * FROM assessments WHERE language = ? ORDER BY taken_at DESC"), language)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	results := make([]assessment.Result, len(rows))
	for i, row := range rows {
		results[i] = assessment.Result{
			ID: row.ID,
			Scores: assessment.Scores{
				Fluency:    row.Fluency,
				Vocabulary: row.Vocabulary,
				Grammar:    row.Grammar,
				Speed:      row.Speed,
			},
			Text:         row.Text,
			Date:         row.TakenAt,
			Language:     row.Language,
			Scenario:     row.Scenario,
			ScenarioName: row.ScenarioName,
		}
		enrich(&results[i])
	}
	return results, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
