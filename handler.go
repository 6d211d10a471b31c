package connector

import "context"

// Warning reports a value that could not be decoded during a read. The raw
// wire value is kept in the row; the warning lets callers observe degraded
// cells without a logging side channel.
type Warning struct {
	Row     int // zero-based data row index
	Field   string
	Message string
}

// DataResult carries the typed rows of a read together with any per-cell
// decode warnings.
type DataResult struct {
	Rows     []Row
	Warnings []Warning
}

// InferFunc derives a table schema from a display name, a path, the ordered
// header list and a sample of wire rows.
type InferFunc func(name string, path []string, headers []string, samples []Row) (*Table, error)

// Handler is the uniform contract every storage backend implements. A
// handler holds the authenticated clients it needs; each call re-fetches the
// backing content, so handlers keep no state between invocations.
//
// Write operations follow read-modify-write with no locking or versioning:
// two concurrent writers targeting the same file race, and the later write
// wins, silently discarding the earlier writer's changes to unrelated rows
// for the full-rewrite backends. Callers needing stronger guarantees must
// serialize their own writes.
type Handler interface {
	// GetTable fetches enough of the resource to infer its schema.
	GetTable(ctx context.Context, fileID, sheetName string) (*Table, error)

	// GetData returns the typed rows of the table. Rows without valid key
	// values are silently excluded; cells whose declared-JSON value fails
	// to parse keep their raw text and are reported as warnings.
	GetData(ctx context.Context, table Table) (*DataResult, error)

	// AddRow appends a row, growing the backing headers with any
	// previously-unseen field names.
	AddRow(ctx context.Context, table Table, row Row) error

	// UpdateRow merges row onto the first row matching key. A key that
	// matches nothing is a no-op, not an error.
	UpdateRow(ctx context.Context, table Table, key Key, row Row) error

	// DeleteRow removes the first row matching key. A key that matches
	// nothing is a no-op, not an error.
	DeleteRow(ctx context.Context, table Table, key Key) error
}
