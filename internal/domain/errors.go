package domain

import "errors"

var (
	ErrUnauthorized   = errors.New("authentication required")
	ErrInvalidHistory = errors.New("invalid history")
	ErrTurnNotFound   = errors.New("turn not found")
)
