package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inlay/internal/entity"
	"inlay/internal/errors"
	"inlay/internal/store"
)

const fixtureUUID = "44444444-4444-4444-4444-444444444444"

func writeFixture(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestImport_FullFixture(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	defer db.Close()

	path := writeFixture(t,
		`{"inlay_fixture": true, "version": 1}`,
		`{"kind": "field", "field_name": "field_hero", "field_kind": "image", "record_type": "node", "bundles": ["article", "page"]}`,
		`{"kind": "field", "field_name": "field_body", "field_kind": "text_with_summary", "record_type": "node", "bundles": ["article"]}`,
		`{"kind": "file", "uuid": "`+fixtureUUID+`", "uri": "hero.png", "mime": "image/png"}`,
		`{"kind": "record", "type": "node", "bundle": "article", "title": "Hello", "fields": {`+
			`"field_hero": {"files": ["`+fixtureUUID+`"]}, `+
			`"field_body": {"items": [{"value": "<p>intro</p>"}]}}}`,
	)

	out, err := Import(db, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if out.Fields != 2 || out.Files != 1 || out.Records != 1 || out.Skipped != 0 {
		t.Errorf("output = %+v", out)
	}

	// The imported record round-trips with resolved file references.
	records, err := store.ListRecords(db)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r, err := store.RecordByID(db, records[0].ID)
	if err != nil {
		t.Fatalf("RecordByID failed: %v", err)
	}
	hero, ok := r.Fields["field_hero"].(*entity.ReferenceListField)
	if !ok || len(hero.Files) != 1 || hero.Files[0].UUID != fixtureUUID {
		t.Errorf("field_hero = %#v", r.Fields["field_hero"])
	}
}

func TestImport_MarkdownConversion(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	defer db.Close()

	path := writeFixture(t,
		`{"kind": "field", "field_name": "field_body", "field_kind": "text_long", "record_type": "node", "bundles": ["page"]}`,
		`{"kind": "record", "type": "node", "bundle": "page", "fields": {`+
			`"field_body": {"items": [{"value": "# Title\n\nbody", "format": "markdown"}]}}}`,
	)

	out, err := Import(db, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Records != 1 {
		t.Fatalf("output = %+v", out)
	}

	records, _ := store.ListRecords(db)
	r, err := store.RecordByID(db, records[0].ID)
	if err != nil {
		t.Fatalf("RecordByID failed: %v", err)
	}
	body := r.Fields["field_body"].(*entity.MultiValueTextField)
	if !strings.Contains(body.Items[0].Value, "<h1>Title</h1>") {
		t.Errorf("markdown not converted: %q", body.Items[0].Value)
	}
}

func TestImport_SkipsBadLines(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	defer db.Close()

	path := writeFixture(t,
		`{not json`,
		`{"kind": "widget"}`,
		`{"kind": "file", "uri": "ok.png", "mime": "image/png"}`,
		`{"kind": "file", "mime": "image/png"}`,
		`{"kind": "record", "type": "node", "bundle": "article", "fields": {"field_hero": {"files": ["99999999-9999-9999-9999-999999999999"]}}}`,
	)

	out, err := Import(db, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if out.Files != 1 {
		t.Errorf("Files = %d, want 1", out.Files)
	}
	if out.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4 (bad JSON, unknown kind, incomplete file, dangling ref)", out.Skipped)
	}
	if len(out.Errors) != 4 {
		t.Errorf("Errors = %+v", out.Errors)
	}
}

func TestImport_GeneratesUUIDs(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	defer db.Close()

	path := writeFixture(t,
		`{"kind": "file", "uri": "auto.png", "mime": "image/png"}`,
	)

	if _, err := Import(db, ImportInput{Path: path}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	files, err := store.ListFiles(db)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 || files[0].UUID == "" || files[0].ID == "" {
		t.Errorf("file should get generated identity and uuid: %+v", files)
	}
}

func TestImport_MissingPath(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	defer db.Close()

	_, err = Import(db, ImportInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty path should fail with ErrInvalidRequest, got: %v", err)
	}

	_, err = Import(db, ImportInput{Path: "/nonexistent/fixture.jsonl"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing file should fail with ErrNotFound, got: %v", err)
	}
}
