package services

import "errors"

// ErrPageNotFound is returned for a page id no page is registered under
var ErrPageNotFound = errors.New("page not found")
