package ops

import (
	"database/sql"

	"inlay/internal/entity"
	"inlay/internal/errors"
	"inlay/internal/store"
)

// ListOutput contains record summaries.
type ListOutput struct {
	Items []store.RecordSummary `json:"items"`
	Total int                   `json:"total"`
}

// List returns summaries of all records, newest first.
func List(db *sql.DB) (*ListOutput, error) {
	items, err := store.ListRecords(db)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Items: items, Total: len(items)}, nil
}

// FilesOutput contains stored file entities.
type FilesOutput struct {
	Items []*entity.File `json:"items"`
	Total int            `json:"total"`
}

// Files returns all stored file entities, newest first.
func Files(db *sql.DB) (*FilesOutput, error) {
	items, err := store.ListFiles(db)
	if err != nil {
		return nil, err
	}
	return &FilesOutput{Items: items, Total: len(items)}, nil
}

// ResolveInput contains parameters for the Resolve operation.
type ResolveInput struct {
	UUID string // required
}

// ResolveOutput describes what a UUID addresses.
type ResolveOutput struct {
	Kind string       `json:"kind"` // "file" or "record"
	File *entity.File `json:"file,omitempty"`
	ID   string       `json:"id,omitempty"`
}

// Resolve looks up a UUID and reports the entity kind it addresses.
func Resolve(db *sql.DB, input ResolveInput) (*ResolveOutput, error) {
	if input.UUID == "" {
		return nil, errors.NewInvalidRequest("uuid is required")
	}

	e, err := store.EntityByUUID(db, input.UUID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.NewNotFound(input.UUID)
	}

	switch v := e.(type) {
	case *entity.File:
		return &ResolveOutput{Kind: "file", File: v, ID: v.ID}, nil
	case *entity.Record:
		return &ResolveOutput{Kind: "record", ID: v.ID}, nil
	default:
		return nil, errors.NewInternal(nil)
	}
}
