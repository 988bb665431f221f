package errors

import (
	stderrors "errors"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidISIN is returned when an instrument key is empty or malformed.
	InvalidISIN ErrorCode = "invalid_isin"
	// InvalidPrice is returned for NaN or infinite quote prices.
	InvalidPrice ErrorCode = "invalid_price"
	// OutOfOrderQuote is returned when a quote lands before the newest stored candle.
	OutOfOrderQuote ErrorCode = "out_of_order_quote"
	// MissingISIN is returned by the HTTP layer when the isin parameter is absent.
	MissingISIN ErrorCode = "missing_isin"
	// InvalidAsOf is returned by the HTTP layer when asOf cannot be parsed.
	InvalidAsOf ErrorCode = "invalid_as_of"
	// MalformedEvent is returned when a stream payload cannot be decoded.
	MalformedEvent ErrorCode = "malformed_event"
	// UnknownEventType is returned for instrument events other than ADD and DELETE.
	UnknownEventType ErrorCode = "unknown_event_type"
	// RateLimited is returned by the HTTP layer when the request budget is exhausted.
	RateLimited ErrorCode = "rate_limited"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisHGetError represents an error when getting a field from a hash in Redis.
	RedisHGetError ErrorCode = "redis_hget_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisHDelError represents an error when deleting fields from a hash in Redis.
	RedisHDelError ErrorCode = "redis_hdel_error"
	// RedisHGetAllError represents an error when reading a whole hash from Redis.
	RedisHGetAllError ErrorCode = "redis_hgetall_error"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// CodeOf returns the code of the first ErrorDetails in err's chain, or
// GeneralInternalServerError when there is none.
func CodeOf(err error) ErrorCode {
	var details *ErrorDetails
	if As(err, &details) {
		return ErrorCode(details.Code)
	}
	return GeneralInternalServerError
}
