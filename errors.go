package connector

import "errors"

var (
	// ErrMissingFileID is returned when a table path has no file identifier.
	ErrMissingFileID = errors.New("missing file id")

	// ErrMissingSheetName is returned when a table path names a spreadsheet
	// resource but no sheet.
	ErrMissingSheetName = errors.New("missing sheet name")

	// ErrInvalidFileID is returned when a file identifier fails validation,
	// before any remote call is attempted.
	ErrInvalidFileID = errors.New("invalid file id")

	// ErrUnknownResource is returned when no handler is registered for the
	// resource type named in a path.
	ErrUnknownResource = errors.New("unknown resource type")

	// ErrDocumentTooLarge is returned when a JSON document exceeds the
	// configured size limit.
	ErrDocumentTooLarge = errors.New("document exceeds size limit")

	// ErrInvalidDocument is returned when a JSON document is not an object
	// or an array of objects.
	ErrInvalidDocument = errors.New("document is not an object or array of objects")
)
