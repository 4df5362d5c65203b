package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"inlay/internal/config"
	"inlay/internal/entity"
	"inlay/internal/ops"
	"inlay/internal/store"
)

const cliUUIDHero = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func seedRecord(t *testing.T, db *sql.DB) string {
	t.Helper()

	if err := store.InsertFieldDef(db, "field_hero", entity.KindImage, "node", "article"); err != nil {
		t.Fatalf("InsertFieldDef failed: %v", err)
	}
	hero := &entity.File{ID: "f-hero", UUID: cliUUIDHero, URI: "hero.png", MIME: "image/png"}
	if err := store.InsertFile(db, hero); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}
	r := &entity.Record{
		ID:     "r1",
		UUID:   "cccccccc-cccc-cccc-cccc-cccccccccccc",
		Type:   "node",
		Bundle: "article",
		Title:  "CLI test",
		Fields: map[string]entity.Field{
			"field_hero": &entity.ReferenceListField{Files: []*entity.File{hero}},
		},
	}
	if err := store.InsertRecord(db, r); err != nil {
		t.Fatalf("InsertRecord failed: %v", err)
	}
	return r.ID
}

// runCapture runs the app with args and returns captured stdout.
func runCapture(t *testing.T, db *sql.DB, args ...string) ([]byte, error) {
	t.Helper()
	app := newCLIApp(db, config.DefaultConfig(), testLogger())

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"inlay"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.Bytes(), err
}

// TestCLIImages tests the images command.
func TestCLIImages(t *testing.T) {
	db := setupTestDB(t)
	id := seedRecord(t, db)

	out, err := runCapture(t, db, "images", id)
	if err != nil {
		t.Fatalf("images command failed: %v", err)
	}

	var output ops.ImagesOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(output.Images) != 1 || output.Images[0].ID != "f-hero" {
		t.Errorf("images = %+v", output.Images)
	}
}

// TestCLIFetch tests the fetch command.
func TestCLIFetch(t *testing.T) {
	db := setupTestDB(t)
	id := seedRecord(t, db)

	out, err := runCapture(t, db, "fetch", id)
	if err != nil {
		t.Fatalf("fetch command failed: %v", err)
	}

	var output ops.FetchOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Title != "CLI test" {
		t.Errorf("Title = %q", output.Title)
	}
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	db := setupTestDB(t)
	seedRecord(t, db)

	out, err := runCapture(t, db, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Total != 1 {
		t.Errorf("Total = %d", output.Total)
	}
}

// TestCLIResolve tests the resolve command.
func TestCLIResolve(t *testing.T) {
	db := setupTestDB(t)
	seedRecord(t, db)

	out, err := runCapture(t, db, "resolve", cliUUIDHero)
	if err != nil {
		t.Fatalf("resolve command failed: %v", err)
	}

	var output ops.ResolveOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Kind != "file" {
		t.Errorf("Kind = %q", output.Kind)
	}
}

// TestCLIImport tests the import command.
func TestCLIImport(t *testing.T) {
	db := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "fixture.jsonl")
	fixture := `{"kind": "file", "uri": "imported.png", "mime": "image/png"}` + "\n"
	if err := os.WriteFile(path, []byte(fixture), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out, err := runCapture(t, db, "import", "--path="+path)
	if err != nil {
		t.Fatalf("import command failed: %v", err)
	}

	var output map[string]any
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output["files"] != float64(1) {
		t.Errorf("files = %v", output["files"])
	}
}

// TestCLIErrorHandling tests error output paths.
func TestCLIErrorHandling(t *testing.T) {
	db := setupTestDB(t)

	t.Run("fetch nonexistent record", func(t *testing.T) {
		_, err := runCapture(t, db, "fetch", "nope")
		if err == nil {
			t.Error("expected error for nonexistent record")
		}
	})

	t.Run("images without id", func(t *testing.T) {
		_, err := runCapture(t, db, "images")
		if err == nil {
			t.Error("expected error for missing record id")
		}
	})

	t.Run("resolve unknown uuid", func(t *testing.T) {
		_, err := runCapture(t, db, "resolve", "99999999-9999-9999-9999-999999999999")
		if err == nil {
			t.Error("expected error for unknown uuid")
		}
	})
}

// TestIsCLIMode tests CLI/MCP mode detection.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"inlay"}, false},
		{"known subcommand", []string{"inlay", "images"}, true},
		{"another subcommand", []string{"inlay", "serve"}, true},
		{"help flag", []string{"inlay", "--help"}, true},
		{"version flag", []string{"inlay", "-v"}, true},
		{"unknown arg", []string{"inlay", "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIsHelpOrVersion tests help/version detection.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"inlay"}, false},
		{"help flag", []string{"inlay", "--help"}, true},
		{"help subcommand", []string{"inlay", "help"}, true},
		{"version flag", []string{"inlay", "--version"}, true},
		{"regular subcommand", []string{"inlay", "list"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isHelpOrVersion(); got != tt.want {
				t.Errorf("isHelpOrVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}
