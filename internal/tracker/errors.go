package tracker

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jwulff/glycemia-go/internal/storage"
)

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string, id int64) error {
	return storage.ErrNotFound{Resource: resource, ID: strconv.FormatInt(id, 10)}
}
