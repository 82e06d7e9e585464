package request

import (
	"context"

	"github.com/gofrs/uuid"
)

type contextKey int

const (
	ctxRequestID contextKey = 1
)

// GetRequestID returns a per request id if one was set
func GetRequestID(ctx context.Context) uuid.UUID {
	val := ctx.Value(ctxRequestID)
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// NewRequestID tags the context with a fresh request ID so that all log
// lines for one logical resolution chain can be correlated. If the context
// already carries an ID it is left alone.
func NewRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) != uuid.Nil {
		return ctx
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestID, id)
}
