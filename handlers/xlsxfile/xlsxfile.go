// Package xlsxfile implements the connector contract over a named sheet of
// an Excel workbook stored in Google Drive. Like the other flat-file
// handlers it downloads the whole file, mutates it in memory and uploads the
// whole file back; unlike the live spreadsheet handler, delete physically
// removes the row.
package xlsxfile

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	connector "github.com/schemafx/connector-google"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Config holds configuration for the XLSX handler.
type Config struct {
	// Infer overrides the default schema inference.
	Infer connector.InferFunc

	// SampleRows caps how many rows feed schema inference (default 50).
	SampleRows int

	// Resource is the path tag this handler serves (default "xlsx").
	Resource string
}

// Handler implements connector.Handler for Excel workbooks.
type Handler struct {
	files  connector.FileStore
	config Config
}

// New creates an XLSX handler over the given file store.
func New(files connector.FileStore, config *Config) *Handler {
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
		cfg.Resource = connector.ResourceXLSX
	}
	return &Handler{files: files, config: cfg}
}

// GetTable fetches the workbook and infers the sheet's schema.
func (h *Handler) GetTable(ctx context.Context, fileID, sheetName string) (*connector.Table, error) {
	if err := validate(fileID, sheetName); err != nil {
		return nil, err
	}

	name, err := h.files.Name(ctx, fileID)
	if err != nil {
		return nil, err
	}

	f, err := h.open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	headers, rows, err := sheetRows(f, sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) > h.config.SampleRows {
		rows = rows[:h.config.SampleRows]
	}

	return h.config.Infer(name, []string{h.config.Resource, fileID, sheetName}, headers, rows)
}

// GetData returns the typed rows of the sheet. A workbook without the named
// sheet reads as an empty table.
func (h *Handler) GetData(ctx context.Context, table connector.Table) (*connector.DataResult, error) {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return nil, err
	}

	f, err := h.open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, rows, err := sheetRows(f, sheetName)
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

// AddRow appends a row after the last used row, creating the sheet and
// growing the header row as needed, then uploads the rewritten workbook.
func (h *Handler) AddRow(ctx context.Context, table connector.Table, row connector.Row) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	f, err := h.open(ctx, fileID)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ensureSheet(f, sheetName); err != nil {
		return err
	}

	all, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}
	headers := []string{}
	if len(all) > 0 {
		headers = headerNames(all[0])
	}

	wire := connector.SerializeRow(row, table)
	merged := connector.MergeHeaders(headers, wire, table)
	if err := setRow(f, sheetName, 1, headerCells(merged)); err != nil {
		return err
	}

	rowNum := len(all) + 1
	if rowNum < 2 {
		rowNum = 2
	}
	if err := setRow(f, sheetName, rowNum, rowCells(wire, merged)); err != nil {
		return err
	}

	return h.upload(ctx, fileID, f)
}

// UpdateRow merges row onto the first row matching key and rewrites just
// that row before uploading. Nothing is written when no row matches.
func (h *Handler) UpdateRow(ctx context.Context, table connector.Table, key connector.Key, row connector.Row) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	f, err := h.open(ctx, fileID)
	if err != nil {
		return err
	}
	defer f.Close()

	headers, rows, err := sheetRows(f, sheetName)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	wire := connector.SerializeRow(row, table)
	merged := connector.MergeHeaders(headers, wire, table)
	if err := setRow(f, sheetName, 1, headerCells(merged)); err != nil {
		return err
	}

	for name, v := range wire {
		rows[idx][name] = v
	}
	if err := setRow(f, sheetName, idx+2, rowCells(rows[idx], merged)); err != nil {
		return err
	}

	return h.upload(ctx, fileID, f)
}

// DeleteRow removes the first row matching key from the workbook. Nothing
// is written when no row matches.
func (h *Handler) DeleteRow(ctx context.Context, table connector.Table, key connector.Key) error {
	fileID, sheetName, err := tablePath(table)
	if err != nil {
		return err
	}

	f, err := h.open(ctx, fileID)
	if err != nil {
		return err
	}
	defer f.Close()

	_, rows, err := sheetRows(f, sheetName)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	if err := f.RemoveRow(sheetName, idx+2); err != nil {
		return fmt.Errorf("failed to remove row: %w", err)
	}

	return h.upload(ctx, fileID, f)
}

func (h *Handler) open(ctx context.Context, fileID string) (*excelize.File, error) {
	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

func (h *Handler) upload(ctx context.Context, fileID string, f *excelize.File) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return h.files.Write(ctx, fileID, buf.Bytes(), xlsxMimeType)
}

// sheetRows reads the sheet into a header list and wire rows. A missing
// sheet reads as empty.
func sheetRows(f *excelize.File, sheetName string) ([]string, []connector.Row, error) {
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		return []string{}, []connector.Row{}, nil
	}

	all, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(all) == 0 {
		return []string{}, []connector.Row{}, nil
	}

	headers := headerNames(all[0])
	rows := make([]connector.Row, 0, len(all)-1)
	for _, cells := range all[1:] {
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

func ensureSheet(f *excelize.File, sheetName string) error {
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index != -1 {
		return nil
	}
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheetName string, rowNum int, cells []interface{}) error {
	cell := fmt.Sprintf("A%d", rowNum)
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
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

func headerNames(cells []string) []string {
	headers := make([]string, len(cells))
	for i, cell := range cells {
		headers[i] = strings.TrimSpace(cell)
	}
	return headers
}

func headerCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, header := range headers {
		cells[i] = header
	}
	return cells
}

func rowCells(row connector.Row, headers []string) []interface{} {
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
