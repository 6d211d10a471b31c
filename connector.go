// Package connector exposes Google Drive stored tabular resources - live
// spreadsheet grids, delimited flat files, JSON array files and Excel
// workbooks - through one schema-aware CRUD contract, so callers can treat a
// Drive folder as a set of addressable tables without knowing which format
// backs any given file.
package connector

import (
	"context"
	"fmt"
)

// Resource type tags carried in path[0].
const (
	ResourceSpreadsheet = "spreadsheet"
	ResourceCSV         = "csv"
	ResourceJSON        = "json"
	ResourceXLSX        = "xlsx"
)

// Connector routes operations to the handler registered for a path's
// resource-type tag.
type Connector struct {
	handlers map[string]Handler
}

// New creates an empty Connector. Handlers are attached with Register; the
// google package wires the default set.
func New() *Connector {
	return &Connector{
		handlers: make(map[string]Handler),
	}
}

// Register attaches a handler for the given resource type, replacing any
// previous registration.
func (c *Connector) Register(resource string, h Handler) {
	c.handlers[resource] = h
}

// Handler returns the handler registered for the given resource type.
func (c *Connector) Handler(resource string) (Handler, error) {
	h, ok := c.handlers[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return h, nil
}

func (c *Connector) route(path []string) (Handler, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownResource)
	}
	return c.Handler(path[0])
}

// GetTable infers the schema of the resource at path.
func (c *Connector) GetTable(ctx context.Context, path []string) (*Table, error) {
	h, err := c.route(path)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 || path[1] == "" {
		return nil, fmt.Errorf("%w: path %v", ErrMissingFileID, path)
	}
	sheet := ""
	if len(path) > 2 {
		sheet = path[2]
	}
	return h.GetTable(ctx, path[1], sheet)
}

// GetData returns the typed rows of the table.
func (c *Connector) GetData(ctx context.Context, table Table) (*DataResult, error) {
	h, err := c.route(table.Path)
	if err != nil {
		return nil, err
	}
	return h.GetData(ctx, table)
}

// AddRow appends a row to the table.
func (c *Connector) AddRow(ctx context.Context, table Table, row Row) error {
	h, err := c.route(table.Path)
	if err != nil {
		return err
	}
	return h.AddRow(ctx, table, row)
}

// UpdateRow merges row onto the first row matching key.
func (c *Connector) UpdateRow(ctx context.Context, table Table, key Key, row Row) error {
	h, err := c.route(table.Path)
	if err != nil {
		return err
	}
	return h.UpdateRow(ctx, table, key, row)
}

// DeleteRow removes the first row matching key.
func (c *Connector) DeleteRow(ctx context.Context, table Table, key Key) error {
	h, err := c.route(table.Path)
	if err != nil {
		return err
	}
	return h.DeleteRow(ctx, table, key)
}
