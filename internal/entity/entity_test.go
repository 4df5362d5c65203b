package entity

import "testing"

func TestRecord_HasField(t *testing.T) {
	r := &Record{
		Type:   "node",
		Bundle: "article",
		Fields: map[string]Field{
			"field_body": &MultiValueTextField{Items: []TextItem{{Value: "<p>hi</p>"}}},
		},
	}

	if !r.HasField("field_body") {
		t.Error("HasField(field_body) = false, want true")
	}
	if r.HasField("field_hero") {
		t.Error("HasField(field_hero) = true, want false")
	}
	if r.Field("field_hero") != nil {
		t.Error("Field(field_hero) should be nil for absent field")
	}
}

func TestReferenceListField_IsEmpty(t *testing.T) {
	empty := &ReferenceListField{}
	if !empty.IsEmpty() {
		t.Error("empty reference list should report IsEmpty")
	}

	full := &ReferenceListField{Files: []*File{{ID: "f1"}}}
	if full.IsEmpty() {
		t.Error("non-empty reference list should not report IsEmpty")
	}
	if len(full.ReferencedFiles()) != 1 {
		t.Errorf("ReferencedFiles() len = %d, want 1", len(full.ReferencedFiles()))
	}
}

func TestMultiValueTextField_IsEmpty(t *testing.T) {
	empty := &MultiValueTextField{}
	if !empty.IsEmpty() {
		t.Error("empty text field should report IsEmpty")
	}

	full := &MultiValueTextField{Items: []TextItem{{Value: "x"}}}
	if full.IsEmpty() {
		t.Error("non-empty text field should not report IsEmpty")
	}
}

func TestEntityUUID(t *testing.T) {
	var e Entity = &File{UUID: "u-file"}
	if e.EntityUUID() != "u-file" {
		t.Errorf("File EntityUUID = %q", e.EntityUUID())
	}

	e = &Record{UUID: "u-rec"}
	if e.EntityUUID() != "u-rec" {
		t.Errorf("Record EntityUUID = %q", e.EntityUUID())
	}
}
