package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// RootAuth checks the platform operator's credentials, which come from the
// environment rather than the document store.
type RootAuth struct {
	username string
	hash     []byte
}

func NewRootAuth(username, password string) (*RootAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash root password: %w", err)
	}
	return &RootAuth{username: username, hash: hash}, nil
}

func (a *RootAuth) Verify(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 {
		return ErrCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrCredentials
	}
	return nil
}
