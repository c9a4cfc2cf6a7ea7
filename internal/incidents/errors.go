package incidents

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDataUnavailable means the source could not be opened or parsed at all
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMissingColumns means a page needs columns the source does not have
	ErrMissingColumns = errors.New("missing columns")
)

// DataUnavailableError carries the source path and the underlying cause
type DataUnavailableError struct {
	Path string
	Err  error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data unavailable: %s", e.Path)
	}
	return fmt.Sprintf("data unavailable: %s: %v", e.Path, e.Err)
}

// Is makes errors.Is(err, ErrDataUnavailable) succeed
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// MissingColumnsError lists every required column absent after normalization
type MissingColumnsError struct {
	Columns []string
}

// NewMissingColumnsError returns a MissingColumnsError with sorted, de-duplicated columns
func NewMissingColumnsError(columns ...string) *MissingColumnsError {
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return &MissingColumnsError{Columns: out}
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
}

// Is makes errors.Is(err, ErrMissingColumns) succeed
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
