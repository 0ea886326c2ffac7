package domain

import "errors"

var (
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
