package connector_test

import (
	"errors"
	"reflect"
	"testing"

	connector "github.com/schemafx/connector-google"
)

func TestTableKeyFields(t *testing.T) {
	table := connector.Table{
		Fields: []connector.Field{
			{Name: "id", Key: true},
			{Name: "name"},
			{Name: "region", Key: true},
		},
	}

	want := []string{"id", "region"}
	if got := table.KeyFields(); !reflect.DeepEqual(got, want) {
		t.Errorf("KeyFields() = %v, want %v", got, want)
	}
}

func TestHasValidKeys(t *testing.T) {
	tests := []struct {
		name      string
		row       connector.Row
		keyFields []string
		want      bool
	}{
		{
			name:      "empty key set always passes",
			row:       connector.Row{},
			keyFields: []string{},
			want:      true,
		},
		{
			name:      "all keys present",
			row:       connector.Row{"id": "1", "region": "eu"},
			keyFields: []string{"id", "region"},
			want:      true,
		},
		{
			name:      "missing key field",
			row:       connector.Row{"id": "1"},
			keyFields: []string{"id", "region"},
			want:      false,
		},
		{
			name:      "nil key value",
			row:       connector.Row{"id": nil},
			keyFields: []string{"id"},
			want:      false,
		},
		{
			name:      "blank after trim",
			row:       connector.Row{"id": "   "},
			keyFields: []string{"id"},
			want:      false,
		},
		{
			name:      "numeric zero is a value, not blank",
			row:       connector.Row{"id": 0},
			keyFields: []string{"id"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connector.HasValidKeys(tt.row, tt.keyFields); got != tt.want {
				t.Errorf("HasValidKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTablePathAccess(t *testing.T) {
	tests := []struct {
		name      string
		path      []string
		wantID    string
		wantIDErr error
	}{
		{
			name:   "valid path",
			path:   []string{"csv", "abc_123-XYZ"},
			wantID: "abc_123-XYZ",
		},
		{
			name:      "missing file id",
			path:      []string{"csv"},
			wantIDErr: connector.ErrMissingFileID,
		},
		{
			name:      "empty file id",
			path:      []string{"csv", ""},
			wantIDErr: connector.ErrMissingFileID,
		},
		{
			name:      "invalid file id",
			path:      []string{"csv", "not/valid"},
			wantIDErr: connector.ErrInvalidFileID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := connector.Table{Path: tt.path}
			id, err := table.FileID()
			if tt.wantIDErr != nil {
				if !errors.Is(err, tt.wantIDErr) {
					t.Fatalf("FileID() error = %v, want %v", err, tt.wantIDErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FileID() error = %v", err)
			}
			if id != tt.wantID {
				t.Errorf("FileID() = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestTableSheetName(t *testing.T) {
	table := connector.Table{Path: []string{"spreadsheet", "abc"}}
	if _, err := table.SheetName(); !errors.Is(err, connector.ErrMissingSheetName) {
		t.Errorf("SheetName() error = %v, want %v", err, connector.ErrMissingSheetName)
	}

	table.Path = append(table.Path, "Sheet1")
	name, err := table.SheetName()
	if err != nil {
		t.Fatalf("SheetName() error = %v", err)
	}
	if name != "Sheet1" {
		t.Errorf("SheetName() = %q, want %q", name, "Sheet1")
	}
}
