package entity

// BundleUsage maps a field name to the bundles that define it.
type BundleUsage map[string][]string

// FieldMap is the global field-usage directory for one field kind:
// record type -> field name -> bundles defining that field.
type FieldMap map[string]BundleUsage
