package ops

import (
	"database/sql"

	"inlay/internal/entity"
	"inlay/internal/errors"
	"inlay/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	RecordID string // required
}

// FetchOutput contains a record with its field values in a JSON-friendly shape.
type FetchOutput struct {
	ID        string                 `json:"id"`
	UUID      string                 `json:"uuid"`
	Type      string                 `json:"type"`
	Bundle    string                 `json:"bundle"`
	Title     string                 `json:"title,omitempty"`
	CreatedAt int64                  `json:"created_at"`
	Fields    map[string]FieldOutput `json:"fields"`
}

// FieldOutput is one field value: referenced files or text items.
type FieldOutput struct {
	Files []*entity.File `json:"files,omitempty"`
	Items []string       `json:"items,omitempty"`
}

// Fetch retrieves a record by ID.
func Fetch(db *sql.DB, input FetchInput) (*FetchOutput, error) {
	if input.RecordID == "" {
		return nil, errors.NewInvalidRequest("record id is required")
	}

	r, err := store.RecordByID(db, input.RecordID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]FieldOutput, len(r.Fields))
	for name, field := range r.Fields {
		switch v := field.(type) {
		case *entity.ReferenceListField:
			fields[name] = FieldOutput{Files: v.Files}
		case *entity.MultiValueTextField:
			items := make([]string, len(v.Items))
			for i, item := range v.Items {
				items[i] = item.Value
			}
			fields[name] = FieldOutput{Items: items}
		}
	}

	return &FetchOutput{
		ID:        r.ID,
		UUID:      r.UUID,
		Type:      r.Type,
		Bundle:    r.Bundle,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		Fields:    fields,
	}, nil
}
