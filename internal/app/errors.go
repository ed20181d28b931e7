package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("username already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUserNotFound      = errors.New("user not found")
	ErrChatNotFound      = errors.New("chat not found")
	ErrWrongPassword     = errors.New("current password mismatch")
	ErrPasswordTooShort  = errors.New("new password too short")
	ErrPasswordUnchanged = errors.New("new password equals current password")
	ErrInvalidAge        = errors.New("age out of range")
	ErrInvalidStatus     = errors.New("invalid chat status")
	ErrInvalidColor      = errors.New("invalid color format")
	ErrEmptyTitle        = errors.New("title is empty")
	ErrEmptyMessage      = errors.New("message content is empty")
	ErrGeminiDisabled    = errors.New("gemini model not configured")
	ErrUpstream          = errors.New("gemini request failed")
)
