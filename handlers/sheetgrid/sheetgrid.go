// Package sheetgrid implements the connector contract over a named sheet of
// a live Google spreadsheet. Unlike the flat-file handlers it never rewrites
// the whole document: reads fetch the used range in one call and writes
// address single rows or the header line.
package sheetgrid

import (
	"context"
	"fmt"
	"strings"

	connector "github.com/schemafx/connector-google"
	"google.golang.org/api/sheets/v4"
)

// Cleared rows are wiped out to this fixed column rather than computed per
// table, so a delete needs no extra metadata round-trip.
const clearEndColumn = "ZZ"

// Config holds configuration for the spreadsheet handler.
type Config struct {
	// Infer overrides the default schema inference.
	Infer connector.InferFunc

	// SampleRows caps how many rows feed schema inference (default 50).
	SampleRows int

	// Resource is the path tag this handler serves (default "spreadsheet").
	Resource string
}

// Handler implements connector.Handler for spreadsheet sheets.
type Handler struct {
	client Client
	config Config
}

// New creates a spreadsheet handler over the given client.
func New(client Client, config *Config) *Handler {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.Infer == nil {
		cfg.Infer = connector.InferTable
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 50
	}
	if cfg.Resource == "" {
		cfg.Resource = connector.ResourceSpreadsheet
	}
	return &Handler{client: client, config: cfg}
}

// NewService creates a spreadsheet handler directly over a sheets.Service.
func NewService(service *sheets.Service, config *Config) *Handler {
	return New(NewClient(service), config)
}

// GetTable fetches the sheet and infers its schema from the header row and
// a sample of data rows.
func (h *Handler) GetTable(ctx context.Context, fileID, sheetName string) (*connector.Table, error) {
	if err := validate(fileID, sheetName); err != nil {
		return nil, err
	}

	title, err := h.client.Title(ctx, fileID)
	if err != nil {
		return nil, err
	}

	headers, rows, err := h.fetch(ctx, fileID, sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) > h.config.SampleRows {
		rows = rows[:h.config.SampleRows]
	}

	return h.config.Infer(title, []string{h.config.Resource, fileID, sheetName}, headers, rows)
}

// GetData returns the typed rows of the sheet. The first row of the used
// range is the header; rows without valid key values are dropped, and
// malformed declared-JSON cells keep their raw text and are reported as
// warnings.
func (h *Handler) GetData(ctx context.Context, table connector.Table) (*connector.DataResult, error) {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return nil, err
	}

	_, rows, err := h.fetch(ctx, fileID, sheetName)
	if err != nil {
		return nil, err
	}

	keyFields := table.KeyFields()
	result := &connector.DataResult{Rows: []connector.Row{}}
	for i, row := range rows {
		typed, warnings := connector.DeserializeRow(row, table, i)
		result.Warnings = append(result.Warnings, warnings...)
		if !connector.HasValidKeys(typed, keyFields) {
			continue
		}
		result.Rows = append(result.Rows, typed)
	}
	return result, nil
}

// AddRow appends a row via the sheet's native append operation. Any
// previously-unseen field names are first written into row 1 after the last
// existing header, in raw input mode; the data row itself is appended in
// user-entered mode so the backend applies its own typing.
func (h *Handler) AddRow(ctx context.Context, table connector.Table, row connector.Row) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	headerRange := fmt.Sprintf("%s!1:1", escapeSheetName(sheetName))
	values, err := h.client.Values(ctx, fileID, headerRange)
	if err != nil {
		return err
	}
	headers := []string{}
	if len(values) > 0 {
		headers = headerNames(values[0])
	}

	wire := connector.SerializeRow(row, table)
	merged, err := h.growHeaders(ctx, fileID, sheetName, headers, wire, table)
	if err != nil {
		return err
	}

	appendRange := fmt.Sprintf("%s!A1", escapeSheetName(sheetName))
	return h.client.Append(ctx, fileID, appendRange, [][]interface{}{rowValues(wire, merged)})
}

// UpdateRow merges row onto the first row matching key and overwrites just
// that row's range. Nothing is written when no row matches.
func (h *Handler) UpdateRow(ctx context.Context, table connector.Table, key connector.Key, row connector.Row) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	headers, rows, err := h.fetch(ctx, fileID, sheetName)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	wire := connector.SerializeRow(row, table)
	merged, err := h.growHeaders(ctx, fileID, sheetName, headers, wire, table)
	if err != nil {
		return err
	}

	for name, v := range wire {
		rows[idx][name] = v
	}

	// Data row i is sheet row i+2: ranges are 1-based and row 1 holds the
	// header.
	writeRange := fmt.Sprintf("%s!A%d", escapeSheetName(sheetName), idx+2)
	return h.client.Update(ctx, fileID, writeRange, [][]interface{}{rowValues(rows[idx], merged)}, InputUserEntered)
}

// DeleteRow clears the matching row's cells rather than removing the row,
// leaving an empty row in place. Row numbers of other rows stay stable
// after a delete, at the cost of leaving gaps - a deliberate trade-off for
// a live grid, and a known asymmetry with the flat-file handlers, which
// physically remove the entry. Nothing is written when no row matches.
func (h *Handler) DeleteRow(ctx context.Context, table connector.Table, key connector.Key) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	_, rows, err := h.fetch(ctx, fileID, sheetName)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	clearRange := fmt.Sprintf("%s!A%d:%s%d", escapeSheetName(sheetName), idx+2, clearEndColumn, idx+2)
	return h.client.Clear(ctx, fileID, clearRange)
}

// fetch reads the full used range of the sheet in one call and maps the
// rows below the header to wire rows by header position.
func (h *Handler) fetch(ctx context.Context, fileID, sheetName string) ([]string, []connector.Row, error) {
	values, err := h.client.Values(ctx, fileID, escapeSheetName(sheetName))
	if err != nil {
		return nil, nil, err
	}
	if len(values) == 0 {
		return []string{}, []connector.Row{}, nil
	}

	headers := headerNames(values[0])
	rows := make([]connector.Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := connector.Row{}
		for j, header := range headers {
			if j < len(cells) {
				row[header] = cells[j]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// growHeaders writes any field names of row not yet present in headers into
// the row-1 range starting at the first free column, in raw input mode, and
// returns the merged header order.
func (h *Handler) growHeaders(ctx context.Context, fileID, sheetName string, headers []string, row connector.Row, table connector.Table) ([]string, error) {
	merged := connector.MergeHeaders(headers, row, table)
	added := merged[len(headers):]
	if len(added) == 0 {
		return merged, nil
	}

	cells := make([]interface{}, len(added))
	for i, name := range added {
		cells[i] = name
	}

	writeRange := fmt.Sprintf("%s!%s1", escapeSheetName(sheetName), ColumnLetter(len(headers)+1))
	if err := h.client.Update(ctx, fileID, writeRange, [][]interface{}{cells}, InputRaw); err != nil {
		return nil, err
	}
	return merged, nil
}

func validate(fileID, sheetName string) error {
	if err := connector.ValidateFileID(fileID); err != nil {
		return err
	}
	if sheetName == "" {
		return connector.ErrMissingSheetName
	}
	return nil
}

func tablePath(table connector.Table) (string, string, error) {
	fileID, err := table.FileID()
	if err != nil {
		return "", "", err
	}
	sheetName, err := table.SheetName()
	if err != nil {
		return "", "", err
	}
	return fileID, sheetName, nil
}

func headerNames(cells []interface{}) []string {
	headers := make([]string, len(cells))
	for i, cell := range cells {
		headers[i] = strings.TrimSpace(connector.CoerceString(cell))
	}
	return headers
}

func rowValues(row connector.Row, headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, header := range headers {
		if v, ok := row[header]; ok && v != nil {
			cells[i] = v
		} else {
			cells[i] = ""
		}
	}
	return cells
}
