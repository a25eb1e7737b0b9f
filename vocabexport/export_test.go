package vocabexport

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nachoal/lingo-tutor-go/session"
)

func sampleEntries() []session.VocabularyEntry {
	added := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return []session.VocabularyEntry{
		{Word: "croissant", Translation: "croissant", Context: "bakery", Priority: 2, Added: added},
		{Word: "merci", Translation: "thank you", Notes: "polite", Priority: 5, Added: added, ReviewCount: 3},
	}
}

func TestWrite_OneRowPerEntry(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleEntries()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Word" || rows[0][7] != "Review Count" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][0] != "merci" || rows[2][1] != "thank you" || rows[2][4] != "5" || rows[2][5] != "2024-05-01 09:30" {
		t.Fatalf("unexpected row %v", rows[2])
	}
}

func TestWriteFileAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	if filepath.Base(path) != "vocabulary-20240501.xlsx" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := WriteFile(path, sampleEntries()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f.Close()

	inputs, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if inputs[1].Word != "merci" || inputs[1].Priority != 5 || inputs[1].Notes != "polite" {
		t.Fatalf("unexpected input %+v", inputs[1])
	}

	store := session.New()
	for _, in := range inputs {
		if _, _, err := store.AddVocab(in); err != nil {
			t.Fatalf("AddVocab failed: %v", err)
		}
	}
	if len(store.Vocabulary()) != 2 {
		t.Fatalf("expected imported words in the store")
	}
}
