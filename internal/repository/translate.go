package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/lib/pq"
)

// ErrSerialization marks a transaction that lost a serialization conflict or a
// deadlock. Callers may retry the whole transaction; the error never reaches a
// response body.
var ErrSerialization = errors.New("transaction serialization failure")

// translateDBError converts driver errors into the service-facing taxonomy.
// No raw driver error crosses the repository boundary.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.ErrDeadlineExceeded
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "40001" || pqErr.Code == "40P01":
			return ErrSerialization
		case pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57":
			// connection exceptions and operator interventions are transient
			return errs.ErrStoreUnavailable
		}
		return errs.ErrInternalServer
	}

	if errors.Is(err, driver.ErrBadConn) {
		return errs.ErrStoreUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return errs.ErrStoreUnavailable
	}

	return errs.ErrInternalServer
}
