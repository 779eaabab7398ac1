package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoDataExtracted  = errors.New("no data extracted")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// IsTerminal reports whether reprocessing the same message can never succeed.
// Terminal failures are acknowledged so the queue does not redeliver them forever.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNoDataExtracted) ||
		errors.Is(err, ErrDocumentNotFound)
}
