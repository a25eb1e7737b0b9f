// Package vocabexport writes the learner's vocabulary list to an Excel
// workbook and reads one back.
package vocabexport

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nachoal/lingo-tutor-go/session"
)

// Sheet is the worksheet that holds the vocabulary
const Sheet = "Sheet1"

// Header is the first row of an exported workbook
var Header = []interface{}{"Word", "Translation", "Context", "Notes", "Priority", "Added", "Last Reviewed", "Review Count"}

const dateLayout = "2006-01-02 15:04"

// Write encodes entries as an xlsx workbook, one row per entry
func Write(w io.Writer, entries []session.VocabularyEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(Sheet, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		lastReviewed := ""
		if e.LastReviewed != nil {
			lastReviewed = e.LastReviewed.Format(dateLayout)
		}
		row := []interface{}{
			e.Word,
			e.Translation,
			e.Context,
			e.Notes,
			e.Priority,
			e.Added.Format(dateLayout),
			lastReviewed,
			e.ReviewCount,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", e.Word, err)
		}
	}

	if err := f.SetColWidth(Sheet, "A", "D", 24); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// WriteFile saves entries to path
func WriteFile(path string, entries []session.VocabularyEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a workbook laid out like Write's output. Only the word
// column is required; rows without a word are skipped.
func Read(r io.Reader) ([]session.VocabInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var out []session.VocabInput
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(row[0], "word") {
			continue
		}

		in := session.VocabInput{
			Word:        column(row, 0),
			Translation: column(row, 1),
			Context:     column(row, 2),
			Notes:       column(row, 3),
		}
		if strings.TrimSpace(in.Word) == "" {
			continue
		}
		if p, err := strconv.Atoi(column(row, 4)); err == nil {
			in.Priority = p
		}
		out = append(out, in)
	}
	return out, nil
}

func column(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// Filename suggests a download name for an export made at t
func Filename(t time.Time) string {
	return fmt.Sprintf("vocabulary-%s.xlsx", t.Format("20060102"))
}
