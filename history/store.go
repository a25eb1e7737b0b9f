// Package history persists assessment results and chat transcripts.
package history

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/nachoal/lingo-tutor-go/assessment"
)

// ErrNotFound is returned when a record or transcript does not exist
var ErrNotFound = errors.New("not found")

// Store persists assessment results
type Store interface {
	// Save assigns an ID when the result has none and stores it
	Save(ctx context.Context, result *assessment.Result) error

	// List returns results newest first. "" and "all" match every language.
	List(ctx context.Context, language string) ([]assessment.Result, error)

	Close() error
}

// Open returns the store for driver. "file" (or "") keeps JSON files under
// dir; "sqlite3", "postgres" and "mysql" use dsn.
func Open(driver, dsn, dir string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite3", "postgres", "mysql":
		return NewSQLStore(driver, dsn)
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}
}

// enrich fills in the derived fields of a stored result
func enrich(r *assessment.Result) {
	if r.Recommendations == nil {
		r.Recommendations = assessment.Recommendations(r.Text)
	}
	if r.Feedback == "" {
		r.Feedback = assessment.PersonalizedFeedback(r.Text)
	}
}

func newID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("20060102_150405"), randomSuffix(6))
}

func randomSuffix(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}
