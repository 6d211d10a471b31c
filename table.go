package connector

import (
	"fmt"
	"strings"
)

// FieldType enumerates the declared types a table field can carry.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	// TypeJSON marks a field whose wire value is JSON text and whose typed
	// value is the decoded structure.
	TypeJSON FieldType = "json"
)

// Field describes a single column of a table.
type Field struct {
	Name string
	Type FieldType
	Key  bool // participates in row identity
}

// Table is a per-operation snapshot of a logical resource: a display name,
// a schema, and a path of the form [resourceType, fileID, sheetName?].
// The connector never persists a Table; it only interprets its schema.
type Table struct {
	Name   string
	Path   []string
	Fields []Field
}

// Row maps field names to values. Wire rows hold values as stored in the
// backing medium (strings for text backends, native JSON types for the JSON
// handler); typed rows hold values after the codec has been applied.
type Row = map[string]interface{}

// Key maps a subset of key field names to expected values. It identifies a
// row for update/delete and is never persisted.
type Key = map[string]interface{}

// KeyFields returns the names of the key-flagged fields in schema order.
func (t Table) KeyFields() []string {
	keys := []string{}
	for _, f := range t.Fields {
		if f.Key {
			keys = append(keys, f.Name)
		}
	}
	return keys
}

// FieldByName returns the descriptor for the named field. The second return
// value is false when the schema does not declare the field.
func (t Table) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FileID extracts and validates the file identifier from the table path.
func (t Table) FileID() (string, error) {
	if len(t.Path) < 2 || t.Path[1] == "" {
		return "", fmt.Errorf("%w: path %v", ErrMissingFileID, t.Path)
	}
	if err := ValidateFileID(t.Path[1]); err != nil {
		return "", err
	}
	return t.Path[1], nil
}

// SheetName extracts the sheet name from the table path.
func (t Table) SheetName() (string, error) {
	if len(t.Path) < 3 || t.Path[2] == "" {
		return "", fmt.Errorf("%w: path %v", ErrMissingSheetName, t.Path)
	}
	return t.Path[2], nil
}

// HasValidKeys reports whether row holds a defined, non-null, non-blank
// value for every key field. Rows failing this are not-yet-fully-formed
// data and are excluded from read results rather than treated as errors.
// An empty key set means no constraint and always passes.
func HasValidKeys(row Row, keyFields []string) bool {
	for _, name := range keyFields {
		v, ok := row[name]
		if !ok || v == nil {
			return false
		}
		if strings.TrimSpace(CoerceString(v)) == "" {
			return false
		}
	}
	return true
}
