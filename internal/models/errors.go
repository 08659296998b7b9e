package models

import "fmt"

// DimensionMismatchError reports a vector whose length differs from the
// store's fixed dimensionality. It is an invariant violation, not a
// transient fault: the affected unit of work must be aborted.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: got %d, expected %d", e.Got, e.Want)
}
