package store

import (
	"database/sql"
	"strings"

	"inlay/internal/entity"
	"inlay/internal/errors"
)

// FieldMapByKind returns the global field-usage directory for one field kind:
// record type -> field name -> bundles defining that field.
// A record type with no fields of the kind simply has no entry.
func FieldMapByKind(db *sql.DB, kind entity.Kind) (entity.FieldMap, error) {
	rows, err := db.Query(
		`SELECT record_type, field_name, bundle FROM field_defs WHERE kind = ?`,
		string(kind),
	)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	result := make(entity.FieldMap)
	for rows.Next() {
		var recordType, fieldName, bundle string
		if err := rows.Scan(&recordType, &fieldName, &bundle); err != nil {
			return nil, errors.NewStorageFailure(err)
		}
		usage, ok := result[recordType]
		if !ok {
			usage = make(entity.BundleUsage)
			result[recordType] = usage
		}
		usage[fieldName] = append(usage[fieldName], bundle)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure(err)
	}

	return result, nil
}

// InsertFieldDef registers a field on a (record type, bundle) pair.
func InsertFieldDef(db *sql.DB, fieldName string, kind entity.Kind, recordType, bundle string) error {
	_, err := db.Exec(
		`INSERT OR IGNORE INTO field_defs (field_name, kind, record_type, bundle) VALUES (?, ?, ?, ?)`,
		fieldName, string(kind), recordType, bundle,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertFile stores a new file entity.
func InsertFile(db *sql.DB, f *entity.File) error {
	_, err := db.Exec(
		`INSERT INTO files (id, uuid, uri, mime, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.UUID, f.URI, f.MIME, f.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewInvalidRequest("file with this uuid already exists: " + f.UUID)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// InsertRecord stores a record together with its field values in one transaction.
// Referenced files must already exist.
func InsertRecord(db *sql.DB, r *entity.Record) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	title := sql.NullString{String: r.Title, Valid: r.Title != ""}
	_, err = tx.Exec(
		`INSERT INTO records (id, uuid, record_type, bundle, title, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.UUID, r.Type, r.Bundle, title, r.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewInvalidRequest("record with this uuid already exists: " + r.UUID)
		}
		return errors.NewInternal(err)
	}

	for name, field := range r.Fields {
		switch v := field.(type) {
		case *entity.ReferenceListField:
			for delta, f := range v.Files {
				if _, err := tx.Exec(
					`INSERT INTO record_refs (record_id, field_name, delta, file_id) VALUES (?, ?, ?, ?)`,
					r.ID, name, delta, f.ID,
				); err != nil {
					return errors.NewInternal(err)
				}
			}
		case *entity.MultiValueTextField:
			for delta, item := range v.Items {
				if _, err := tx.Exec(
					`INSERT INTO record_texts (record_id, field_name, delta, value) VALUES (?, ?, ?, ?)`,
					r.ID, name, delta, item.Value,
				); err != nil {
					return errors.NewInternal(err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RecordByID retrieves a record and its field values.
func RecordByID(db *sql.DB, id string) (*entity.Record, error) {
	row := db.QueryRow(
		`SELECT id, uuid, record_type, bundle, title, created_at FROM records WHERE id = ?`, id,
	)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := loadFields(db, r); err != nil {
		return nil, err
	}
	return r, nil
}

// EntityByUUID resolves a UUID to the entity it addresses: a *entity.File,
// a *entity.Record, or nil when no entity carries the UUID.
// A backend failure surfaces as a storage error.
func EntityByUUID(db *sql.DB, uuid string) (entity.Entity, error) {
	f := &entity.File{}
	err := db.QueryRow(
		`SELECT id, uuid, uri, mime, created_at FROM files WHERE uuid = ?`, uuid,
	).Scan(&f.ID, &f.UUID, &f.URI, &f.MIME, &f.CreatedAt)
	if err == nil {
		return f, nil
	}
	if err != sql.ErrNoRows {
		return nil, errors.NewStorageFailure(err)
	}

	row := db.QueryRow(
		`SELECT id, uuid, record_type, bundle, title, created_at FROM records WHERE uuid = ?`, uuid,
	)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return r, nil
}

// RecordTypes returns the distinct content-entity type names known to the store.
func RecordTypes(db *sql.DB) ([]string, error) {
	rows, err := db.Query(
		`SELECT DISTINCT record_type FROM field_defs
		 UNION SELECT DISTINCT record_type FROM records
		 ORDER BY record_type`,
	)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, errors.NewStorageFailure(err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return types, nil
}

// RecordSummary is a listing row without field values.
type RecordSummary struct {
	ID        string `json:"id"`
	UUID      string `json:"uuid"`
	Type      string `json:"type"`
	Bundle    string `json:"bundle"`
	Title     string `json:"title,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// ListRecords returns summaries of all records, newest first.
func ListRecords(db *sql.DB) ([]RecordSummary, error) {
	rows, err := db.Query(
		`SELECT id, uuid, record_type, bundle, title, created_at
		 FROM records ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := make([]RecordSummary, 0)
	for rows.Next() {
		var (
			s     RecordSummary
			title sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UUID, &s.Type, &s.Bundle, &title, &s.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.Title = title.String
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// ListFiles returns all stored file entities, newest first.
func ListFiles(db *sql.DB) ([]*entity.File, error) {
	rows, err := db.Query(
		`SELECT id, uuid, uri, mime, created_at FROM files ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	files := make([]*entity.File, 0)
	for rows.Next() {
		f := &entity.File{}
		if err := rows.Scan(&f.ID, &f.UUID, &f.URI, &f.MIME, &f.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return files, nil
}

// loadFields populates r.Fields from record_refs and record_texts.
func loadFields(db *sql.DB, r *entity.Record) error {
	r.Fields = make(map[string]entity.Field)

	refRows, err := db.Query(
		`SELECT rr.field_name, f.id, f.uuid, f.uri, f.mime, f.created_at
		 FROM record_refs rr JOIN files f ON f.id = rr.file_id
		 WHERE rr.record_id = ?
		 ORDER BY rr.field_name, rr.delta`,
		r.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer refRows.Close()

	for refRows.Next() {
		var fieldName string
		f := &entity.File{}
		if err := refRows.Scan(&fieldName, &f.ID, &f.UUID, &f.URI, &f.MIME, &f.CreatedAt); err != nil {
			return errors.NewInternal(err)
		}
		field, ok := r.Fields[fieldName].(*entity.ReferenceListField)
		if !ok {
			field = &entity.ReferenceListField{}
			r.Fields[fieldName] = field
		}
		field.Files = append(field.Files, f)
	}
	if err := refRows.Err(); err != nil {
		return errors.NewInternal(err)
	}

	textRows, err := db.Query(
		`SELECT field_name, value FROM record_texts
		 WHERE record_id = ?
		 ORDER BY field_name, delta`,
		r.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer textRows.Close()

	for textRows.Next() {
		var fieldName, value string
		if err := textRows.Scan(&fieldName, &value); err != nil {
			return errors.NewInternal(err)
		}
		field, ok := r.Fields[fieldName].(*entity.MultiValueTextField)
		if !ok {
			field = &entity.MultiValueTextField{}
			r.Fields[fieldName] = field
		}
		field.Items = append(field.Items, entity.TextItem{Value: value})
	}
	return textRows.Err()
}

// scanRecord scans a record row (without field values).
func scanRecord(row *sql.Row) (*entity.Record, error) {
	var (
		r     entity.Record
		title sql.NullString
	)
	err := row.Scan(&r.ID, &r.UUID, &r.Type, &r.Bundle, &title, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Title = title.String
	return &r, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
