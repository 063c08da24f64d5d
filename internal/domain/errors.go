package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the edge can pick a status code.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "INVALID_REQUEST"
	KindUnauthorized   ErrorKind = "UNAUTHORIZED"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindBusinessRule   ErrorKind = "BUSINESS_RULE"
	KindConflict       ErrorKind = "CONFLICT"
	KindUpstream       ErrorKind = "UPSTREAM"
	KindStore          ErrorKind = "STORE"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateRequest  = errors.New("duplicate request")
)

// Error is a classified failure. Message is safe to show to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidRequest(msg string) *Error { return &Error{Kind: KindInvalidRequest, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func Store(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of err; anything unclassified counts as a store failure.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return KindBusinessRule
	}
	return KindStore
}

// PublicMessage returns the client-facing text for err, or fallback when the
// error carries no safe message.
func PublicMessage(err error, fallback string) string {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.Error()
	}
	var de *Error
	if errors.As(err, &de) && de.Kind != KindStore && de.Kind != KindUpstream {
		return de.Message
	}
	return fallback
}

// InsufficientStockError reports a line that asked for more than the row holds.
type InsufficientStockError struct {
	CardName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %q. Available: %d, Requested: %d",
		e.CardName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
