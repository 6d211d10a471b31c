package connector_test

import (
	"reflect"
	"testing"

	connector "github.com/schemafx/connector-google"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		field connector.Field
		want  interface{}
	}{
		{
			name:  "nil becomes empty string",
			value: nil,
			field: connector.Field{Name: "a", Type: connector.TypeText},
			want:  "",
		},
		{
			name:  "plain string passes through",
			value: "hello",
			field: connector.Field{Name: "a", Type: connector.TypeText},
			want:  "hello",
		},
		{
			name:  "number passes through",
			value: 42,
			field: connector.Field{Name: "a", Type: connector.TypeNumber},
			want:  42,
		},
		{
			name:  "declared json object is encoded",
			value: map[string]interface{}{"x": float64(1)},
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  `{"x":1}`,
		},
		{
			name:  "object without json declaration is still encoded",
			value: map[string]interface{}{"x": float64(1)},
			field: connector.Field{Name: "a", Type: connector.TypeText},
			want:  `{"x":1}`,
		},
		{
			name:  "array is encoded",
			value: []interface{}{float64(1), "b"},
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  `[1,"b"]`,
		},
		{
			name:  "concrete slice is encoded",
			value: []string{"a", "b"},
			field: connector.Field{Name: "a", Type: connector.TypeText},
			want:  `["a","b"]`,
		},
		{
			name:  "json-declared string passes through",
			value: `{"x":1}`,
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  `{"x":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connector.Serialize(tt.value, tt.field)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Serialize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		field   connector.Field
		want    interface{}
		wantErr bool
	}{
		{
			name:  "non-json field passes through",
			value: "5",
			field: connector.Field{Name: "a", Type: connector.TypeText},
			want:  "5",
		},
		{
			name:  "json field decodes object",
			value: `{"x":1}`,
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  map[string]interface{}{"x": float64(1)},
		},
		{
			name:  "json field decodes array",
			value: `[1,2]`,
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  []interface{}{float64(1), float64(2)},
		},
		{
			name:    "malformed json keeps raw text",
			value:   `{"x":`,
			field:   connector.Field{Name: "a", Type: connector.TypeJSON},
			want:    `{"x":`,
			wantErr: true,
		},
		{
			name:  "blank json cell passes through without error",
			value: "  ",
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  "  ",
		},
		{
			name:  "non-textual value on json field passes through",
			value: float64(3),
			field: connector.Field{Name: "a", Type: connector.TypeJSON},
			want:  float64(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := connector.Deserialize(tt.value, tt.field)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Deserialize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		field connector.Field
	}{
		{
			name:  "plain text",
			value: "Alice",
			field: connector.Field{Name: "name", Type: connector.TypeText},
		},
		{
			name:  "number",
			value: 7,
			field: connector.Field{Name: "count", Type: connector.TypeNumber},
		},
		{
			name: "json object deep-equals after round trip",
			value: map[string]interface{}{
				"tags": []interface{}{"a", "b"},
				"n":    float64(3),
			},
			field: connector.Field{Name: "meta", Type: connector.TypeJSON},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := connector.Serialize(tt.value, tt.field)
			got, err := connector.Deserialize(wire, tt.field)
			if err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("round trip = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestDeserializeRow(t *testing.T) {
	table := connector.Table{
		Fields: []connector.Field{
			{Name: "id", Type: connector.TypeText, Key: true},
			{Name: "meta", Type: connector.TypeJSON},
		},
	}

	row := connector.Row{"id": "1", "meta": `{"x":`}
	typed, warnings := connector.DeserializeRow(row, table, 3)

	if typed["meta"] != `{"x":` {
		t.Errorf("malformed cell should keep raw text, got %v", typed["meta"])
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Row != 3 || warnings[0].Field != "meta" {
		t.Errorf("warning = %+v, want row 3 field meta", warnings[0])
	}
}

func TestMergeHeaders(t *testing.T) {
	table := connector.Table{
		Fields: []connector.Field{
			{Name: "id"},
			{Name: "name"},
			{Name: "email"},
		},
	}

	tests := []struct {
		name    string
		headers []string
		row     connector.Row
		want    []string
	}{
		{
			name:    "no new fields",
			headers: []string{"id", "name"},
			row:     connector.Row{"id": "1", "name": "a"},
			want:    []string{"id", "name"},
		},
		{
			name:    "declared field appended after existing",
			headers: []string{"id", "name"},
			row:     connector.Row{"id": "1", "email": "a@x.com"},
			want:    []string{"id", "name", "email"},
		},
		{
			name:    "undeclared fields appended last in lexical order",
			headers: []string{"id"},
			row:     connector.Row{"id": "1", "zeta": "z", "alpha": "a"},
			want:    []string{"id", "alpha", "zeta"},
		},
		{
			name:    "empty headers take schema order first",
			headers: []string{},
			row:     connector.Row{"name": "a", "id": "1"},
			want:    []string{"id", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connector.MergeHeaders(tt.headers, tt.row, table)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeHeaders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "a", want: "a"},
		{name: "int", value: 5, want: "5"},
		{name: "whole float", value: float64(5), want: "5"},
		{name: "large float stays decimal", value: float64(1000000), want: "1000000"},
		{name: "small float stays decimal", value: float64(0.0000001), want: "0.0000001"},
		{name: "fractional float", value: 1.5, want: "1.5"},
		{name: "float32", value: float32(1000000), want: "1000000"},
		{name: "bool", value: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connector.CoerceString(tt.value); got != tt.want {
				t.Errorf("CoerceString(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
