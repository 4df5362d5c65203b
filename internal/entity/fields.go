package entity

// Field is the value of a single field on a record. Exactly two variants
// exist: ReferenceListField for image-reference fields and
// MultiValueTextField for rich-text fields.
type Field interface {
	IsEmpty() bool
}

// ReferenceListField holds the file entities referenced by an image field.
type ReferenceListField struct {
	Files []*File
}

// IsEmpty implements Field.
func (f *ReferenceListField) IsEmpty() bool { return len(f.Files) == 0 }

// ReferencedFiles returns the referenced file entities in item order.
func (f *ReferenceListField) ReferencedFiles() []*File { return f.Files }

// TextItem is one value item of a multi-valued rich-text field.
type TextItem struct {
	// Value is an HTML string, possibly embedding inline images
	Value string
}

// MultiValueTextField holds the ordered value items of a rich-text field.
type MultiValueTextField struct {
	Items []TextItem
}

// IsEmpty implements Field.
func (f *MultiValueTextField) IsEmpty() bool { return len(f.Items) == 0 }
