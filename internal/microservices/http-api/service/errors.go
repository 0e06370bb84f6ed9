package service

import (
	"errors"
	"fmt"
	"strings"

	"libraryhub/internal/microservices/http-api/repository"
)

// FieldError is a single violated rule on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found for one request. Nothing is
// written when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NotFoundError reports a missing entity by id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError means the request is well-formed but clashes with current
// state: a referenced row, or a row changed since the caller read it.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

const msgEmailExists = "Email already exists in the system."

// fromStoreError converts repository sentinels into service errors. Errors it
// does not recognise are returned unchanged.
func fromStoreError(entity string, id int64, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Entity: entity, ID: id}
	case errors.Is(err, repository.ErrReferenced):
		return &ConflictError{Reason: fmt.Sprintf("%s is referenced by loan records", entity)}
	case errors.Is(err, repository.ErrDuplicateEmail):
		return &ValidationError{Fields: []FieldError{{Field: "email", Message: msgEmailExists}}}
	}
	return err
}
