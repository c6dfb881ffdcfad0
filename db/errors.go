package db

import (
	"strings"

	"github.com/teranos/doctor/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database,
// typically when `check --watch` is interrupted while a run is being recorded.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// Driver errors carry their own types, so their message is checked as well.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
