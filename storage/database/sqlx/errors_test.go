package sqlxrepos

import (
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

func TestWrapErr(t *testing.T) {
	if err := wrapErr(nil, "noop"); err != nil {
		t.Errorf("wrapErr(nil) = %v; want nil", err)
	}

	err := wrapErr(errors.New("duplicate key"), "upserting user")
	if core.IsShutdown(err) {
		t.Errorf("IsShutdown(%v) = true for a plain error", err)
	}
	if got, want := err.Error(), "upserting user: duplicate key"; got != want {
		t.Errorf("wrapErr().Error() = %q; want %q", got, want)
	}

	// a dead connection asks for a shutdown, even when already wrapped
	if err = wrapErr(driver.ErrBadConn, "querying progress"); !core.IsShutdown(err) {
		t.Errorf("IsShutdown(%v) = false for driver.ErrBadConn", err)
	}
	wrapped := errors.Wrap(driver.ErrBadConn, "executing query")
	if err = wrapErr(wrapped, "querying progress"); !core.IsShutdown(err) {
		t.Errorf("IsShutdown(%v) = false for a wrapped driver.ErrBadConn", err)
	}
	if err = errors.Wrap(wrapErr(driver.ErrBadConn, "querying progress"), "granting premium"); !core.IsShutdown(err) {
		t.Errorf("IsShutdown(%v) = false after a service-level wrap", err)
	}
}
