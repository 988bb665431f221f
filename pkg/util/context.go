package util

import (
	"context"
)

type key string

const (
	clientIPKey = key("x-forwarded-for")
	eventIDKey  = key("event-id")
	sourceKey   = key("event-source")
)

// WithClientIP returns a context with a client ip
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// WithEventID returns a context with event id
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey, id)
}

// WithSource returns a context tagged with the feed an event came from,
// e.g. "kafka:quotes" or "websocket:instruments".
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetClientIP returns client ip from context
// will return empty string if not present
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// GetEventID returns event id from context
// will return empty string if not present
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// GetSource returns the feed name stored by WithSource.
func GetSource(ctx context.Context) string {
	source, _ := ctx.Value(sourceKey).(string)
	return source
}
