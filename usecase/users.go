package usecase

import (
	"context"
	"errors"
	"log"

	"notevault/model"
	"notevault/repository"
	"notevault/services"
)

// ErrAuthFailed covers both an unknown username and a wrong password.
// Callers must not be able to tell the two apart.
var ErrAuthFailed = errors.New("authentication failed")

// CredentialStore is the persistence surface the user service needs.
type CredentialStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type UserService struct {
	Users CredentialStore
}

// decoyHash is verified against when the username does not exist, so a
// failed lookup costs the same as a failed password check.
var decoyHash string

func init() {
	var err error
	decoyHash, err = services.HashPassword("notevault-decoy")
	if err != nil {
		log.Fatalf("Failed to derive decoy hash: %v", err)
	}
}

// Register creates a user, storing only the salted password hash.
// Returns repository.ErrDuplicateUser when the username is taken.
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.Users.AddUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials. Every failure path surfaces as
// ErrAuthFailed.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			services.VerifyPassword(decoyHash, password)
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	match, err := services.VerifyPassword(user.PasswordHash, password)
	if err != nil || !match {
		return nil, ErrAuthFailed
	}

	return user, nil
}
