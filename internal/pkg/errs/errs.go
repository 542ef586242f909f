// Package errs is the only place that imports cockroachdb/errors; the rest
// of the codebase goes through these helpers.
package errs

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// New returns a stack-annotated error.
func New(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with msg. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Mark makes err match markErr under errors.Is while keeping the original
// message and stack. Handlers switch on the mark, logs keep the cause.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return errors.Mark(err, markErr)
}

// StackLines renders err with its stack trace and returns at most maxLines
// lines, for structured log fields.
func StackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
