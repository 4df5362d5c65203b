// Package ingest loads field definitions, file entities, and content records
// from a JSONL fixture file into the store.
package ingest

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/yuin/goldmark"

	"inlay/internal/entity"
	"inlay/internal/errors"
	"inlay/internal/store"
)

// Line kinds accepted in a fixture file.
const (
	kindField  = "field"
	kindFile   = "file"
	kindRecord = "record"
)

// Line is one JSONL fixture line. Kind selects which of the remaining
// field groups is meaningful.
type Line struct {
	// Header line, skipped
	InlayFixture bool `json:"inlay_fixture,omitempty"`

	Kind string `json:"kind"`

	// kind: field
	FieldName  string   `json:"field_name,omitempty"`
	FieldKind  string   `json:"field_kind,omitempty"`
	RecordType string   `json:"record_type,omitempty"`
	Bundles    []string `json:"bundles,omitempty"`

	// kind: file (UUID optional, generated when absent)
	UUID string `json:"uuid,omitempty"`
	URI  string `json:"uri,omitempty"`
	MIME string `json:"mime,omitempty"`

	// kind: record
	Type   string                `json:"type,omitempty"`
	Bundle string                `json:"bundle,omitempty"`
	Title  string                `json:"title,omitempty"`
	Fields map[string]FieldValue `json:"fields,omitempty"`
}

// FieldValue is a fixture field value: a list of file UUIDs for
// image-reference fields, or a list of text items for rich-text fields.
type FieldValue struct {
	Files []string    `json:"files,omitempty"`
	Items []TextValue `json:"items,omitempty"`
}

// TextValue is one rich-text item. Format "markdown" converts the value to
// HTML at import time; anything else is stored as-is.
type TextValue struct {
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Fields  int           `json:"fields"`
	Files   int           `json:"files"`
	Records int           `json:"records"`
	Skipped int           `json:"skipped"`
	Errors  []ImportError `json:"errors"`
}

// ImportError represents an error on one fixture line.
type ImportError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads a fixture file. Lines with problems are skipped and reported;
// a backend failure aborts the whole import.
func Import(db *sql.DB, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	if _, err := os.Stat(input.Path); os.IsNotExist(err) {
		return nil, errors.NewNotFound(input.Path)
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to open fixture file: %w", err))
	}
	defer file.Close()

	out := &ImportOutput{Errors: []ImportError{}}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var line Line
		if err := json.Unmarshal(raw, &line); err != nil {
			out.skip(lineNum, "PARSE_ERROR", fmt.Sprintf("invalid JSON: %v", err))
			continue
		}
		if line.InlayFixture {
			continue
		}

		switch line.Kind {
		case kindField:
			if err := importField(db, line); err != nil {
				out.skip(lineNum, "FIELD_FAILED", err.Error())
				continue
			}
			out.Fields++
		case kindFile:
			if err := importFile(db, line); err != nil {
				out.skip(lineNum, "FILE_FAILED", err.Error())
				continue
			}
			out.Files++
		case kindRecord:
			if err := importRecord(db, line); err != nil {
				out.skip(lineNum, "RECORD_FAILED", err.Error())
				continue
			}
			out.Records++
		default:
			out.skip(lineNum, "UNKNOWN_KIND", fmt.Sprintf("unknown line kind %q", line.Kind))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read fixture: %w", err))
	}

	return out, nil
}

func (o *ImportOutput) skip(line int, code, msg string) {
	o.Skipped++
	o.Errors = append(o.Errors, ImportError{Line: line, Code: code, Message: msg})
}

// importField registers one field definition per listed bundle.
func importField(db *sql.DB, line Line) error {
	if line.FieldName == "" || line.FieldKind == "" || line.RecordType == "" || len(line.Bundles) == 0 {
		return fmt.Errorf("field line requires field_name, field_kind, record_type, bundles")
	}
	for _, bundle := range line.Bundles {
		if err := store.InsertFieldDef(db, line.FieldName, entity.Kind(line.FieldKind), line.RecordType, bundle); err != nil {
			return err
		}
	}
	return nil
}

// importFile stores one file entity, generating identity and UUID as needed.
func importFile(db *sql.DB, line Line) error {
	if line.URI == "" || line.MIME == "" {
		return fmt.Errorf("file line requires uri and mime")
	}
	fileUUID := line.UUID
	if fileUUID == "" {
		fileUUID = uuid.NewString()
	} else if _, err := uuid.Parse(fileUUID); err != nil {
		return fmt.Errorf("invalid uuid %q: %v", fileUUID, err)
	}
	return store.InsertFile(db, &entity.File{
		ID:        generateULID(),
		UUID:      fileUUID,
		URI:       line.URI,
		MIME:      line.MIME,
		CreatedAt: time.Now().Unix(),
	})
}

// importRecord stores one record, resolving file references by UUID and
// converting markdown items to HTML.
func importRecord(db *sql.DB, line Line) error {
	if line.Type == "" || line.Bundle == "" {
		return fmt.Errorf("record line requires type and bundle")
	}
	recordUUID := line.UUID
	if recordUUID == "" {
		recordUUID = uuid.NewString()
	} else if _, err := uuid.Parse(recordUUID); err != nil {
		return fmt.Errorf("invalid uuid %q: %v", recordUUID, err)
	}

	fields := make(map[string]entity.Field, len(line.Fields))
	for name, value := range line.Fields {
		switch {
		case len(value.Files) > 0:
			refs := &entity.ReferenceListField{}
			for _, fileUUID := range value.Files {
				e, err := store.EntityByUUID(db, fileUUID)
				if err != nil {
					return err
				}
				f, ok := e.(*entity.File)
				if !ok {
					return fmt.Errorf("field %q references %q which is not a stored file", name, fileUUID)
				}
				refs.Files = append(refs.Files, f)
			}
			fields[name] = refs
		case len(value.Items) > 0:
			text := &entity.MultiValueTextField{}
			for _, item := range value.Items {
				html, err := renderValue(item)
				if err != nil {
					return fmt.Errorf("field %q: %v", name, err)
				}
				text.Items = append(text.Items, entity.TextItem{Value: html})
			}
			fields[name] = text
		}
	}

	return store.InsertRecord(db, &entity.Record{
		ID:        generateULID(),
		UUID:      recordUUID,
		Type:      line.Type,
		Bundle:    line.Bundle,
		Title:     line.Title,
		Fields:    fields,
		CreatedAt: time.Now().Unix(),
	})
}

// renderValue converts a markdown item to HTML; other formats pass through.
func renderValue(item TextValue) (string, error) {
	if item.Format != "markdown" {
		return item.Value, nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(item.Value), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %v", err)
	}
	return buf.String(), nil
}

// generateULID generates a new ULID.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
