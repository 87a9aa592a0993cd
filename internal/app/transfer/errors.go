package transfer

import (
	"errors"
	"strings"
)

// ErrPermissionDenied is returned when the caller is not an admin. The
// operation performs no store reads or writes in that case.
var ErrPermissionDenied = errors.New("admin role required")

// InvalidFormatError reports an import document that is not a usable
// export: required keys missing, or a value that does not unwrap to a
// record array.
type InvalidFormatError struct {
	Missing []string // required keys absent from the document
	Reason  string   // set when the document or a value failed to parse
}

func (e *InvalidFormatError) Error() string {
	if len(e.Missing) > 0 {
		return "invalid export file: missing " + strings.Join(e.Missing, ", ")
	}
	return "invalid export file: " + e.Reason
}
