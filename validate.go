package connector

import (
	"fmt"
	"regexp"
)

// Drive file identifiers are opaque but well-behaved: alphanumerics, dashes
// and underscores, at most 100 characters. Anything else never reaches the
// network.
var fileIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// ValidateFileID checks a file identifier before it is used in a remote
// call.
func ValidateFileID(id string) error {
	if !fileIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidFileID, id)
	}
	return nil
}
