package store

import (
	"database/sql"

	"inlay/internal/entity"
)

// Conn adapts a *sql.DB to the narrow method set consumers such as the
// extractor depend on.
type Conn struct {
	db *sql.DB
}

// Bind wraps an initialized database handle.
func Bind(db *sql.DB) *Conn {
	return &Conn{db: db}
}

// FieldMapByKind implements the field-usage directory lookup.
func (c *Conn) FieldMapByKind(kind entity.Kind) (entity.FieldMap, error) {
	return FieldMapByKind(c.db, kind)
}

// EntityByUUID implements the UUID-keyed entity lookup.
func (c *Conn) EntityByUUID(uuid string) (entity.Entity, error) {
	return EntityByUUID(c.db, uuid)
}

// RecordTypes implements the content-entity type listing.
func (c *Conn) RecordTypes() ([]string, error) {
	return RecordTypes(c.db)
}
