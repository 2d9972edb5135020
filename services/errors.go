package services

import "net/http"

// Error kinds returned by the service layer. Each carries the HTTP status it
// maps to so controllers never pick status codes ad hoc.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return e.Message }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// WindowClosedError rejects selection changes after a meal's closing time.
type WindowClosedError struct{}

func (e *WindowClosedError) Error() string   { return "meal closed" }
func (e *WindowClosedError) StatusCode() int { return http.StatusBadRequest }
