package sim

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrHorizonExceeded marks a run that did not terminate within its horizon.
// An undersized horizon on a completable order is a caller defect, not a
// scheduling outcome.
var ErrHorizonExceeded = errors.New("simulation horizon exceeded")

// IntegrityError reports a post-run reconciliation shortfall: the final
// roster is missing instances that the build order plus the initial roster
// promised.
type IntegrityError struct {
	Missing map[string]int
}

func (e *IntegrityError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for name := range e.Missing {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s×%d", name, e.Missing[name]))
	}
	return "roster reconciliation failed, missing " + strings.Join(parts, ", ")
}
