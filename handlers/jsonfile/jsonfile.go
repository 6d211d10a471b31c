// Package jsonfile implements the connector contract over a JSON document
// stored in Google Drive. The document is either a top-level array of row
// objects or a single object (a one-row table); mutations rewrite the whole
// document as an indented array.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	connector "github.com/schemafx/connector-google"
)

const jsonMimeType = "application/json"

// Config holds configuration for the JSON handler.
type Config struct {
	// MaxBytes rejects documents larger than this before parsing, bounding
	// memory use on pathological files (default 5 MiB).
	MaxBytes int

	// Indent is the indentation of rewritten documents (default two spaces).
	Indent string

	// Infer overrides the default schema inference.
	Infer connector.InferFunc

	// SampleRows caps how many rows feed schema inference (default 50).
	SampleRows int

	// Resource is the path tag this handler serves (default "json").
	Resource string
}

// Handler implements connector.Handler for JSON documents.
type Handler struct {
	files  connector.FileStore
	config Config
}

// New creates a JSON handler over the given file store.
func New(files connector.FileStore, config *Config) *Handler {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	if cfg.Infer == nil {
		cfg.Infer = connector.InferTable
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 50
	}
	if cfg.Resource == "" {
		cfg.Resource = connector.ResourceJSON
	}
	return &Handler{files: files, config: cfg}
}

// GetTable fetches the document and infers its schema. The effective header
// list is the union of keys across the row objects, in lexical order.
func (h *Handler) GetTable(ctx context.Context, fileID, sheetName string) (*connector.Table, error) {
	if err := connector.ValidateFileID(fileID); err != nil {
		return nil, err
	}

	name, err := h.files.Name(ctx, fileID)
	if err != nil {
		return nil, err
	}

	rows, err := h.read(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if len(rows) > h.config.SampleRows {
		rows = rows[:h.config.SampleRows]
	}

	return h.config.Infer(name, []string{h.config.Resource, fileID}, headerUnion(rows), rows)
}

// GetData returns the rows of the document. Values are already native JSON
// types, so no codec pass is needed; rows without valid key values are
// dropped.
func (h *Handler) GetData(ctx context.Context, table connector.Table) (*connector.DataResult, error) {
	fileID, err := table.FileID()
	if err != nil {
		return nil, err
	}

	rows, err := h.read(ctx, fileID)
	if err != nil {
		return nil, err
	}

	keyFields := table.KeyFields()
	result := &connector.DataResult{Rows: []connector.Row{}}
	for _, row := range rows {
		if connector.HasValidKeys(row, keyFields) {
			result.Rows = append(result.Rows, row)
		}
	}
	return result, nil
}

// AddRow appends the row object verbatim and rewrites the whole array.
func (h *Handler) AddRow(ctx context.Context, table connector.Table, row connector.Row) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	rows, err := h.read(ctx, fileID)
	if err != nil {
		return err
	}

	return h.write(ctx, fileID, append(rows, row))
}

// UpdateRow shallow-merges row onto the first row matching key. No write is
// issued when nothing matches.
func (h *Handler) UpdateRow(ctx context.Context, table connector.Table, key connector.Key, row connector.Row) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	rows, err := h.read(ctx, fileID)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	for name, v := range row {
		rows[idx][name] = v
	}

	return h.write(ctx, fileID, rows)
}

// DeleteRow removes the first row matching key. No write is issued when
// nothing matches.
func (h *Handler) DeleteRow(ctx context.Context, table connector.Table, key connector.Key) error {
	fileID, err := table.FileID()
	if err != nil {
		return err
	}

	rows, err := h.read(ctx, fileID)
	if err != nil {
		return err
	}

	idx := connector.FindRow(rows, key)
	if idx < 0 {
		return nil
	}

	return h.write(ctx, fileID, append(rows[:idx], rows[idx+1:]...))
}

func (h *Handler) read(ctx context.Context, fileID string) ([]connector.Row, error) {
	data, err := h.files.Read(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return parseDocument(data, h.config.MaxBytes)
}

func (h *Handler) write(ctx context.Context, fileID string, rows []connector.Row) error {
	if rows == nil {
		rows = []connector.Row{}
	}
	out, err := json.MarshalIndent(rows, "", h.config.Indent)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}
	return h.files.Write(ctx, fileID, out, jsonMimeType)
}

// parseDocument decodes the backing document. A single top-level object is
// treated as a one-row table; anything other than an object or an array of
// plain objects fails fast rather than being coerced.
func parseDocument(data []byte, maxBytes int) ([]connector.Row, error) {
	if len(data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", connector.ErrDocumentTooLarge, len(data), maxBytes)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	switch d := doc.(type) {
	case map[string]interface{}:
		return []connector.Row{d}, nil
	case []interface{}:
		rows := make([]connector.Row, 0, len(d))
		for i, element := range d {
			obj, ok := element.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", connector.ErrInvalidDocument, i, element)
			}
			rows = append(rows, obj)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: top level is %T", connector.ErrInvalidDocument, doc)
	}
}

func headerUnion(rows []connector.Row) []string {
	seen := map[string]bool{}
	headers := []string{}
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				headers = append(headers, name)
			}
		}
	}
	sort.Strings(headers)
	return headers
}
