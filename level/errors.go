package level

import (
	"fmt"

	"github.com/pkg/errors"
)

// DocumentError is returned when the target level is missing, unreadable,
// not a json object or does not have the structure a patch requires.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("level: %v", e.Err)
	}
	return fmt.Sprintf("level %q: %v", e.Path, e.Err)
}

func (e *DocumentError) Cause() error  { return e.Err }
func (e *DocumentError) Unwrap() error { return e.Err }

func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
