package sqlxrepos

import (
	"database/sql/driver"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

// wrapErr wraps repository errors and flags a dead connection as a
// shutdown error so the server stops instead of failing every request.
func wrapErr(err error, msg string) error {
	if errors.Cause(err) == driver.ErrBadConn {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}
