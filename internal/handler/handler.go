// Package handler contains the http handlers and middleware shared by the services
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Error is the message and http status code to return
type Error struct {
	Message string
	Code    int
}

// InternalServerError is a convenience function for returning an internal server error
func InternalServerError() *Error {
	return &Error{
		Message: "Something went wrong",
		Code:    http.StatusInternalServerError,
	}
}

// BadRequest is a convenience function for returning a bad request error
func BadRequest(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

// NotFound is a convenience function for returning a not found error
func NotFound(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// UnprocessableEntity is a convenience function for returning an error for input that can't be processed
func UnprocessableEntity(message string) *Error {
	return &Error{
		Message: message,
		Code:    http.StatusUnprocessableEntity,
	}
}

const jsonMediaType = "application/json"

// Handler wraps a http handler and deals with responding to errors
type Handler func(w http.ResponseWriter, r *http.Request) *Error

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if !strings.Contains(r.Header.Get("Accept"), jsonMediaType) {
		http.Error(w, err.Message, err.Code)
		return
	}

	w.Header().Set("Content-Type", jsonMediaType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(err.Code)

	data := struct {
		Error string `json:"error"`
	}{err.Message}
	_ = json.NewEncoder(w).Encode(data)
}
