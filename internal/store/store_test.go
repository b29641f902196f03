package store

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"nbdiff/internal/logging"
	"nbdiff/internal/notebook"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	logger := logging.NewLogger(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
	db, err := Open(filepath.Join(t.TempDir(), "nbdiff.db"), logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshot_Roundtrip(t *testing.T) {
	db := testDB(t)

	cells := []notebook.CellDto{
		{
			Handle:   1,
			Source:   notebook.NewSourceText("import pandas as pd", "df = pd.DataFrame()"),
			Language: "python",
			CellKind: notebook.CodeCell,
			Outputs: []notebook.Output{
				{Items: []notebook.OutputItem{{Mime: "text/plain", Data: []byte("ok")}}},
			},
		},
		{
			Handle:   2,
			Source:   notebook.NewSourceText("# Analysis"),
			Language: "markdown",
			CellKind: notebook.MarkupCell,
		},
	}
	metadata := map[string]interface{}{"kernelspec": "python3"}

	id, err := db.SaveSnapshot("test://nb", cells, metadata)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveSnapshot returned an empty id")
	}

	gotCells, gotMeta, err := db.LoadLatestSnapshot("test://nb")
	if err != nil {
		t.Fatalf("LoadLatestSnapshot failed: %v", err)
	}
	if len(gotCells) != 2 {
		t.Fatalf("loaded %d cells, want 2", len(gotCells))
	}
	if gotCells[0].Handle != 1 || gotCells[0].Source.Join() != "import pandas as pd\ndf = pd.DataFrame()" {
		t.Errorf("cell 0 = %+v", gotCells[0])
	}
	if gotCells[1].CellKind != notebook.MarkupCell {
		t.Errorf("cell 1 kind = %v, want MarkupCell", gotCells[1].CellKind)
	}
	if string(gotCells[0].Outputs[0].Items[0].Data) != "ok" {
		t.Errorf("output data = %q", gotCells[0].Outputs[0].Items[0].Data)
	}
	if gotMeta["kernelspec"] != "python3" {
		t.Errorf("metadata = %v", gotMeta)
	}
}

func TestLoadLatestSnapshot_Missing(t *testing.T) {
	db := testDB(t)
	if _, _, err := db.LoadLatestSnapshot("test://never-saved"); err != sql.ErrNoRows {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSaveSnapshot_DistinctIds(t *testing.T) {
	db := testDB(t)

	a, err := db.SaveSnapshot("test://nb", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := db.SaveSnapshot("test://nb", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two saves returned the same row id")
	}

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE uri = ?`, "test://nb").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}
}

func TestRecordDiff(t *testing.T) {
	db := testDB(t)

	if err := db.RecordDiff("test://a", "test://b", 3, 1, 250*time.Microsecond); err != nil {
		t.Fatalf("RecordDiff failed: %v", err)
	}

	var changeCount, moveCount, durationUs int
	err := db.conn.QueryRow(
		`SELECT change_count, move_count, duration_us FROM diff_audit WHERE original_uri = ?`,
		"test://a",
	).Scan(&changeCount, &moveCount, &durationUs)
	if err != nil {
		t.Fatalf("audit row missing: %v", err)
	}
	if changeCount != 3 || moveCount != 1 || durationUs != 250 {
		t.Errorf("audit row = (%d, %d, %d), want (3, 1, 250)", changeCount, moveCount, durationUs)
	}
}

func TestOpen_Reopen(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
	path := filepath.Join(t.TempDir(), "nbdiff.db")

	db, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.SaveSnapshot("test://nb", []notebook.CellDto{{Handle: 1}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening an existing file runs migrations instead of schema init and
	// must find the previous data intact.
	db, err = Open(path, logger)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	cells, _, err := db.LoadLatestSnapshot("test://nb")
	if err != nil {
		t.Fatalf("LoadLatestSnapshot after reopen failed: %v", err)
	}
	if len(cells) != 1 || cells[0].Handle != 1 {
		t.Errorf("cells = %+v", cells)
	}
}
