package cleaning

import (
	"errors"
	"fmt"
)

// ErrImputation matches ImputationError via errors.Is.
var ErrImputation = errors.New("imputation failed")

// ImputationError indicates a column has missing cells but no value from which
// a median or mode could be computed.
type ImputationError struct {
	Column string
	Reason string
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("cannot impute column %q: %s", e.Column, e.Reason)
}

func (e *ImputationError) Is(target error) bool { return target == ErrImputation }
