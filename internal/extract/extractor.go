// Package extract locates every image a content record references: files
// attached through image-reference fields and files embedded as
// <img data-entity-uuid="..."> tags inside rich-text field values.
package extract

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"inlay/internal/entity"
	"inlay/internal/errors"
	"inlay/internal/route"
)

// uuidAttr is the <img> attribute carrying the embedded reference token.
const uuidAttr = "data-entity-uuid"

// Storage is the narrow view of the storage layer the extractor consumes.
type Storage interface {
	// FieldMapByKind returns the global field-usage directory for a kind.
	FieldMapByKind(kind entity.Kind) (entity.FieldMap, error)

	// EntityByUUID resolves a UUID to an entity, or nil when nothing
	// carries it. A backend failure is returned as an error.
	EntityByUUID(uuid string) (entity.Entity, error)

	// RecordTypes lists the known content-entity type names.
	RecordTypes() ([]string, error)
}

// recordInfo is the cached {type, bundle} snapshot of the target record,
// recomputed whenever the record is (re)set.
type recordInfo struct {
	Type   string
	Bundle string
}

// Extractor extracts image references from one content record. It holds only
// transient per-call state and is safe to instantiate per request; it is not
// safe for concurrent use.
type Extractor struct {
	storage Storage
	logger  *log.Logger

	record *entity.Record
	info   *recordInfo
}

// New creates an extractor bound to a storage layer.
// A nil logger falls back to the default logger.
func New(storage Storage, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{storage: storage, logger: logger}
}

// SetRecord sets the target record explicitly and re-derives its info
// snapshot. A nil record clears the target.
func (x *Extractor) SetRecord(r *entity.Record) {
	x.record = r
	if r == nil {
		x.info = nil
		return
	}
	x.info = &recordInfo{Type: r.Type, Bundle: r.Bundle}
}

// SetRecordFromRoute adopts the target record from a route match: for every
// known content-entity type, the first route parameter named after the type
// that holds a record wins. No match leaves the target unset, which is a
// normal outcome for non-record routes, not an error.
func (x *Extractor) SetRecordFromRoute(m *route.Match) error {
	if m != nil {
		types, err := x.storage.RecordTypes()
		if err != nil {
			return err
		}
		for _, t := range types {
			if r, ok := m.Record(t); ok {
				x.SetRecord(r)
				return nil
			}
		}
	}
	x.SetRecord(nil)
	return nil
}

// Record returns the currently set target record, or nil.
func (x *Extractor) Record() *entity.Record {
	return x.record
}

// FieldsByKind returns the names of fields of the given kind defined on the
// target record's bundle. A record type without an entry in the field-usage
// directory yields an empty list, not an error. The order follows map
// iteration and is not guaranteed; callers must not depend on it.
func (x *Extractor) FieldsByKind(kind entity.Kind) ([]string, error) {
	if x.info == nil {
		return nil, nil
	}

	fieldMap, err := x.storage.FieldMapByKind(kind)
	if err != nil {
		return nil, err
	}

	usage, ok := fieldMap[x.info.Type]
	if !ok {
		return nil, nil
	}

	var names []string
	for name, bundles := range usage {
		if slices.Contains(bundles, x.info.Bundle) {
			names = append(names, name)
		}
	}
	return names, nil
}

// ExtractImages collects every file the target record references, from image
// fields and from rich-text embeds, deduplicated by file identity in
// first-seen order. An unset target yields an empty result without touching
// storage. A storage failure during embed resolution aborts the whole call.
func (x *Extractor) ExtractImages() ([]*entity.File, error) {
	if x.record == nil || x.info == nil {
		return []*entity.File{}, nil
	}

	set := newResultSet()
	if err := x.collectImageFields(set); err != nil {
		return nil, err
	}
	if err := x.scanTextFields(set); err != nil {
		return nil, err
	}
	return set.files(), nil
}

// collectImageFields appends the referenced files of every image field
// present on the record. A field defined on the bundle but absent on this
// record instance is skipped.
func (x *Extractor) collectImageFields(set *resultSet) error {
	names, err := x.FieldsByKind(entity.KindImage)
	if err != nil {
		return err
	}

	for _, name := range names {
		if !x.record.HasField(name) {
			continue
		}
		field, ok := x.record.Field(name).(*entity.ReferenceListField)
		if !ok {
			continue
		}
		for _, f := range field.ReferencedFiles() {
			set.add(f)
		}
	}
	return nil
}

// scanTextFields parses the HTML of every rich-text field and resolves each
// embedded <img> back to its stored file.
func (x *Extractor) scanTextFields(set *resultSet) error {
	seen := make(map[string]bool)
	var names []string
	for _, kind := range entity.TextKinds {
		kindNames, err := x.FieldsByKind(kind)
		if err != nil {
			return err
		}
		for _, name := range kindNames {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		if !x.record.HasField(name) {
			continue
		}
		field, ok := x.record.Field(name).(*entity.MultiValueTextField)
		if !ok || field.IsEmpty() {
			continue
		}

		// A field may be multi-valued; all value items form one HTML blob.
		var blob strings.Builder
		for _, item := range field.Items {
			blob.WriteString(item.Value)
		}

		if err := x.scanHTML(name, blob.String(), set); err != nil {
			return err
		}
	}
	return nil
}

// scanHTML locates every <img> element in the blob at any nesting depth and
// resolves its data-entity-uuid token. The parse is lenient: malformed markup
// from WYSIWYG editors never raises. An embed without a usable token is
// skipped with a warning; a token that resolves to nothing, or to an entity
// that is not a file, contributes nothing.
func (x *Extractor) scanHTML(fieldName, blob string, set *resultSet) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(blob))
	if err != nil {
		return errors.NewInternal(err)
	}

	var scanErr error
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attrs := attributes(s)

		token, ok := attrs[uuidAttr]
		if !ok || token == "" {
			x.logger.Warn("img tag without embedded reference token, skipping",
				"field", fieldName, "attr", uuidAttr)
			return true
		}
		if _, err := uuid.Parse(token); err != nil {
			x.logger.Warn("img tag with malformed reference token, skipping",
				"field", fieldName, "token", token)
			return true
		}

		e, err := x.storage.EntityByUUID(token)
		if err != nil {
			scanErr = err
			return false
		}
		if e == nil {
			return true
		}
		f, ok := e.(*entity.File)
		if !ok {
			return true
		}
		set.add(f)
		return true
	})
	return scanErr
}

// attributes builds a name -> value map of all attributes on the selection's
// underlying element.
func attributes(s *goquery.Selection) map[string]string {
	attrs := make(map[string]string)
	if len(s.Nodes) == 0 {
		return attrs
	}
	for _, a := range s.Nodes[0].Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

// resultSet accumulates files keyed by identity, preserving first-seen order.
// Adding an already-present identity overwrites the value in place.
type resultSet struct {
	order []string
	byID  map[string]*entity.File
}

func newResultSet() *resultSet {
	return &resultSet{byID: make(map[string]*entity.File)}
}

func (s *resultSet) add(f *entity.File) {
	if _, ok := s.byID[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.byID[f.ID] = f
}

func (s *resultSet) files() []*entity.File {
	files := make([]*entity.File, len(s.order))
	for i, id := range s.order {
		files[i] = s.byID[id]
	}
	return files
}
