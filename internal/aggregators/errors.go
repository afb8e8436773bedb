package aggregators

import (
	"fmt"

	"event-analytics/internal/shared/svcerrors"
)

const (
	codeInternalEventStoreFailed = "AGG_9000"
)

// errInternalEventStoreFailed returns an error when an event store read fails
// while computing a snapshot.
func errInternalEventStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEventStoreFailed, fmt.Errorf("eventStoreFailed: %w", cause))
}
