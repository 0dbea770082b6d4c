package frame

import (
	"github.com/cockroachdb/errors"
)

// ErrFatal marks errors after which the application cannot continue:
// device loss, unsupported surfaces, invalid configuration. It is detected
// through any amount of wrapping with IsFatal.
var ErrFatal = errors.New("fatal")

// Fatal marks err as fatal. A nil err stays nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	if IsFatal(err) {
		return err
	}
	return errors.Mark(err, ErrFatal)
}

// Fatalf creates a new fatal error.
func Fatalf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrFatal)
}

// IsFatal reports whether err, or anything it wraps, was marked fatal.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
