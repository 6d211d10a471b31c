package connector

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Serialize converts an in-memory value into its wire form for the given
// field. Structured values (maps, slices) are always JSON-encoded, even when
// the field is not declared as json - they must never be written as their
// native stringification. Nil becomes an empty string, never the literal
// text "null". The field descriptor is intentionally unused: encoding is
// driven by the value's shape alone so that undeclared json fields are
// still written safely. The parameter keeps Serialize and Deserialize
// symmetric.
func Serialize(v interface{}, _ Field) interface{} {
	if v == nil {
		return ""
	}

	switch v.(type) {
	case map[string]interface{}, []interface{}:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return v
	}

	// Catch structured values arriving as concrete map/slice types.
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}

	return v
}

// Deserialize converts a wire value into its typed form for the given field.
// Only fields declared as json are parsed, and only when the wire value is
// textual. On parse failure the original text is returned alongside the
// error so the caller can keep the raw value and record a warning - one
// malformed cell must not abort the rest of the read.
func Deserialize(v interface{}, f Field) (interface{}, error) {
	if f.Type != TypeJSON {
		return v, nil
	}

	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	// A blank cell is absent data, not malformed JSON.
	if strings.TrimSpace(s) == "" {
		return v, nil
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return v, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return decoded, nil
}

// SerializeRow applies Serialize to every value in row. Fields the schema
// does not declare are serialized the same way as declared ones.
func SerializeRow(row Row, t Table) Row {
	wire := make(Row, len(row))
	for name, v := range row {
		f, _ := t.FieldByName(name)
		wire[name] = Serialize(v, f)
	}
	return wire
}

// DeserializeRow applies Deserialize to every value in row. Decode failures
// keep the raw wire value and are reported as warnings against the given
// data row index.
func DeserializeRow(row Row, t Table, rowIndex int) (Row, []Warning) {
	typed := make(Row, len(row))
	var warnings []Warning
	for name, v := range row {
		f, _ := t.FieldByName(name)
		f.Name = name
		decoded, err := Deserialize(v, f)
		if err != nil {
			warnings = append(warnings, Warning{
				Row:     rowIndex,
				Field:   name,
				Message: err.Error(),
			})
		}
		typed[name] = decoded
	}
	return typed, warnings
}

// CoerceString renders a value as the text a spreadsheet or CSV cell would
// hold. Nil renders as an empty string. Floats use plain decimal notation:
// JSON parsing hands every number over as float64, and the default %v
// formatting would turn an id like 1000000 into "1e+06", which matches
// neither the wire text nor the caller's key.
func CoerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// MergeHeaders returns headers extended with every key of row not already
// present. Existing positions are never shifted. Go maps are unordered, so
// new names are appended deterministically: declared schema order first,
// names unknown to the schema last in lexical order.
func MergeHeaders(headers []string, row Row, t Table) []string {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[h] = true
	}

	merged := append([]string{}, headers...)
	for _, f := range t.Fields {
		if _, ok := row[f.Name]; ok && !seen[f.Name] {
			merged = append(merged, f.Name)
			seen[f.Name] = true
		}
	}

	extras := []string{}
	for name := range row {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(merged, extras...)
}
