package scene

import (
	"fmt"

	"github.com/pkg/errors"
)

// LoadError is returned for malformed or incomplete scene documents.
// Nothing is returned together with it.
type LoadError struct {
	Path string
	Node string
	Err  error
}

func (e *LoadError) Error() string {
	where := "scene"
	if e.Path != "" {
		where = fmt.Sprintf("scene %q", e.Path)
	}
	if e.Node != "" {
		where = fmt.Sprintf("%s: node %q", where, e.Node)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *LoadError) Cause() error  { return e.Err }
func (e *LoadError) Unwrap() error { return e.Err }

func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
