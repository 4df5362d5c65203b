package entity

// Kind is the declared data type of a field.
type Kind string

const (
	KindImage           Kind = "image"
	KindText            Kind = "text"
	KindTextLong        Kind = "text_long"
	KindTextWithSummary Kind = "text_with_summary"
)

// TextKinds lists the field kinds whose values carry rich-text HTML.
var TextKinds = []Kind{KindText, KindTextLong, KindTextWithSummary}

// Entity is anything addressable by UUID in the store.
// Concrete kinds are *File and *Record.
type Entity interface {
	EntityUUID() string
}

// File is the metadata row for a stored binary asset.
type File struct {
	// ID is a ULID, the file identity used to key extraction results
	ID string `json:"id"`

	// UUID is the content-addressable reference embedded in rich-text markup
	UUID string `json:"uuid"`

	// URI is the storage-relative location of the asset (e.g. "2024-03/photo.png")
	URI string `json:"uri"`

	// MIME is the declared media type
	MIME string `json:"mime"`

	// CreatedAt is the Unix timestamp when the file row was created
	CreatedAt int64 `json:"created_at"`
}

// EntityUUID implements Entity.
func (f *File) EntityUUID() string { return f.UUID }

// Record is a structured content item with a type and a sub-type (bundle).
// The bundle determines which fields are present.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string

	// UUID is the content-addressable reference for this record
	UUID string

	// Type is the content type identifier (e.g. "node")
	Type string

	// Bundle is the sub-type identifier (e.g. "article")
	Bundle string

	// Title is an optional human-readable title
	Title string

	// Fields maps field machine names to their values. A field defined on
	// the bundle may still be absent here for a particular record instance.
	Fields map[string]Field

	// CreatedAt is the Unix timestamp when the record was created
	CreatedAt int64
}

// EntityUUID implements Entity.
func (r *Record) EntityUUID() string { return r.UUID }

// HasField reports whether this record instance carries a value for name.
func (r *Record) HasField(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Field returns the value for name, or nil if absent.
func (r *Record) Field(name string) Field {
	return r.Fields[name]
}
