package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

var (
	// ErrTransport signals a failed call to the stock or product service.
	ErrTransport = errors.New("catalog service call failed")
	// ErrInternal signals an unexpected fault inside an operation.
	ErrInternal = errors.New("unexpected cart store failure")
)

// OperationError carries the classified cause of a rejected operation together
// with the notice shown to the user. Only the notice is meant to leave the
// process; the cause is kept for logs, traces, and tests.
type OperationError struct {
	Op     string
	Notice domain.Notice
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("cart %s: %s: %v", e.Op, e.Notice.Message, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// NoticeOf extracts the user-facing notice from an operation error.
func NoticeOf(err error) (domain.Notice, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Notice, true
	}
	return domain.Notice{}, false
}

// Kind names the classified cause for observability attributes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrStockExceeded):
		return "stock_exceeded"
	case errors.Is(err, domain.ErrEntryNotFound):
		return "entry_not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, domain.ErrInvalidProductID), errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_input"
	default:
		return "internal"
	}
}

func transportError(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func noticeKindFor(op string, err error) domain.NoticeKind {
	if errors.Is(err, domain.ErrStockExceeded) {
		return domain.NoticeStockExceeded
	}
	switch op {
	case opRemove:
		return domain.NoticeRemoveFailed
	case opUpdate:
		return domain.NoticeUpdateFailed
	default:
		return domain.NoticeAddFailed
	}
}
