package util

import (
	"context"

	"github.com/google/uuid"
)

const (
	requestIDKey = key("x-request-id")
)

// WithRequestID returns a context with a request id.
// It generates a new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewID()
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from ctx, or an empty string.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// NewID returns a uuid-v4 string to use as request or event id.
func NewID() string {
	return uuid.NewString()
}
