package models

import (
	"errors"
	"net/http"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
)

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session invalid")
	ErrSessionCreating = errors.New("error creating session")
	ErrSessionDeleting = errors.New("error deleting session")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrUserNotFound       = errors.New("user not found")
)

var (
	ErrQueuePublish = errors.New("queue publish error")
)

// HTTPStatus maps an error from any layer onto the response status it should produce.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrSessionInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDatabaseConnection), errors.Is(err, ErrDatabaseQuery),
		errors.Is(err, ErrRedisConnection), errors.Is(err, ErrRedisGet), errors.Is(err, ErrRedisSet),
		errors.Is(err, ErrSessionCreating):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text shown to the client for err; internal details stay in the logs.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return "Username and password are required"
	case http.StatusUnauthorized:
		return "Authentication failed"
	case http.StatusNotFound:
		return "User not found"
	case http.StatusTooManyRequests:
		return "Too many login attempts, please try again later"
	case http.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	default:
		return "Internal Server Error"
	}
}
