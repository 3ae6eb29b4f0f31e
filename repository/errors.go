package repository

import "errors"

var (
	// ErrDuplicateUser is returned when the username is already taken.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrUserNotFound is returned when no user matches the username.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoteNotFound is returned when no note matches the id.
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteConflict is returned when a note id is already present.
	// Ids are random UUIDs so this is close to unreachable, but it is
	// handled rather than assumed impossible.
	ErrNoteConflict = errors.New("note id already exists")
)
