package services

import "errors"

var (
	ErrUnknownDevice   = errors.New("unknown device serial")
	ErrUnknownUser     = errors.New("unknown user")
	ErrDuplicateSerial = errors.New("device serial already registered")
	ErrInvalidInput    = errors.New("invalid input")
)
