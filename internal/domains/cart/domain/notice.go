package domain

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind enumerates the user-facing outcome categories.
type NoticeKind string

const (
	NoticeStockExceeded NoticeKind = "stock_exceeded"
	NoticeAddFailed     NoticeKind = "add_failed"
	NoticeRemoveFailed  NoticeKind = "remove_failed"
	NoticeUpdateFailed  NoticeKind = "update_failed"
)

var noticeMessages = map[NoticeKind]string{
	NoticeStockExceeded: "requested quantity exceeds stock",
	NoticeAddFailed:     "failed to add product",
	NoticeRemoveFailed:  "failed to remove product",
	NoticeUpdateFailed:  "failed to update quantity",
}

// Notice is a transient, non-blocking message reporting an operation outcome.
type Notice struct {
	ID        uuid.UUID
	Kind      NoticeKind
	Message   string
	ProductID int64
	RaisedAt  time.Time
}

// NewNotice builds a notice with the canonical message for kind.
func NewNotice(kind NoticeKind, productID int64) Notice {
	return Notice{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   noticeMessages[kind],
		ProductID: productID,
		RaisedAt:  time.Now().UTC(),
	}
}
