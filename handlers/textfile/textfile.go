// Package textfile implements the connector contract over a delimited flat
// file (CSV or TSV) stored in Google Drive. Every operation fetches the
// whole file, mutates it in memory and writes the whole file back; there are
// no partial or streaming writes.
package textfile

import (
	"context"
	"fmt"

	connector "github.com/schemafx/connector-google"
)

// Config holds configuration for the delimited-text handler.
type Config struct {
	// Delimiter forces a field delimiter. Zero means auto-detect from the
	// header line.
	Delimiter rune

	// Infer overrides the default schema inference.
	Infer connector.InferFunc

	// SampleRows caps how many rows feed schema inference (default 50).
	SampleRows int

	// Resource is the path tag this handler serves (default "csv").
	Resource string
}

// Handler implements connector.Handler for delimited text files.
type Handler struct {
	files  connector.FileStore
	config Config
}

// New creates a delimited-text handler over the given file store.
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
		cfg.Resource = connector.ResourceCSV
	}
	return &Handler{files: files, config: cfg}
}

// GetTable fetches the file and infers its schema from the header line and
// a sample of rows.
func (h *Handler) GetTable(ctx context.Context, fileID, sheetName string) (*connector.Table, error) {
	if err := connector.ValidateFileID(fileID); err != nil {
		return nil, err
	}

	name, err := h.files.Name(ctx, fileID)
	if err != nil {
		return nil, err
	}

	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return nil, err
	}

	headers, rows, _, err := h.parse(data)
	if err != nil {
		return nil, err
	}
	if len(rows) > h.config.SampleRows {
		rows = rows[:h.config.SampleRows]
	}

	return h.config.Infer(name, []string{h.config.Resource, fileID}, headers, rows)
}

// GetData returns the typed rows of the file. Rows without valid key values
// are dropped; malformed declared-JSON cells keep their raw text and are
// reported as warnings.
func (h *Handler) GetData(ctx context.Context, table connector.Table) (*connector.DataResult, error) {
	fileID, err := table.FileID()
	if err != nil {
		return nil, err
	}

	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return nil, err
	}

	_, rows, _, err := h.parse(data)
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

// AddRow appends a row, growing the header line with any previously-unseen
// field names and rewriting the whole file with the delimiter that was
// detected on read.
func (h *Handler) AddRow(ctx context.Context, table connector.Table, row connector.Row) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return err
	}

	headers, rows, delim, err := h.parse(data)
	if err != nil {
		return err
	}

	wire := connector.SerializeRow(row, table)
	headers = connector.MergeHeaders(headers, wire, table)
	rows = append(rows, wire)

	return h.write(ctx, fileID, headers, rows, delim)
}

// UpdateRow merges row onto the first row matching key. No write is issued
// when nothing matches.
func (h *Handler) UpdateRow(ctx context.Context, table connector.Table, key connector.Key, row connector.Row) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return err
	}

	headers, rows, delim, err := h.parse(data)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	wire := connector.SerializeRow(row, table)
	for name, v := range wire {
		rows[idx][name] = v
	}
	headers = connector.MergeHeaders(headers, rows[idx], table)

	return h.write(ctx, fileID, headers, rows, delim)
}

// DeleteRow removes the first row matching key and rewrites the file using
// the remaining rows' own header union, so a column held only by the
// deleted row disappears. No write is issued when nothing matches.
func (h *Handler) DeleteRow(ctx context.Context, table connector.Table, key connector.Key) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return err
	}

	headers, rows, delim, err := h.parse(data)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	rows = append(rows[:idx], rows[idx+1:]...)
	headers = headerUnion(headers, rows)

	return h.write(ctx, fileID, headers, rows, delim)
}

func (h *Handler) parse(data []byte) ([]string, []connector.Row, rune, error) {
	delim := h.config.Delimiter
	if delim == 0 {
		delim = detectDelimiter(string(data))
	}
	headers, rows, err := parseContent(string(data), delim)
	if err != nil {
		return nil, nil, delim, fmt.Errorf("failed to parse delimited file: %w", err)
	}
	return headers, rows, delim, nil
}

func (h *Handler) write(ctx context.Context, fileID string, headers []string, rows []connector.Row, delim rune) error {
	out, err := writeContent(headers, rows, delim)
	if err != nil {
		return fmt.Errorf("failed to serialize delimited file: %w", err)
	}
	return h.files.Write(ctx, fileID, out, mimeType(delim))
}

func mimeType(delim rune) string {
	if delim == '\t' {
		return "text/tab-separated-values"
	}
	return "text/csv"
}

// headerUnion keeps the headers, in their original order, that at least one
// remaining row still holds. When no rows remain the original header line
// is kept as-is.
func headerUnion(headers []string, rows []connector.Row) []string {
	if len(rows) == 0 {
		return headers
	}

	kept := []string{}
	for _, header := range headers {
		for _, row := range rows {
			if _, ok := row[header]; ok {
				kept = append(kept, header)
				break
			}
		}
	}
	return kept
}
