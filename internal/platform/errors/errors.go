package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrEmptyURLList  = errors.New("url list is empty")
	ErrNoFileChosen  = errors.New("no file selected")
	ErrNotConfigured = errors.New("adapter not configured")
)
