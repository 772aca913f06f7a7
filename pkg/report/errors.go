package report

import "errors"

// ErrNotFound is returned by Store.Get when no report has the given ID.
var ErrNotFound = errors.New("report not found")
