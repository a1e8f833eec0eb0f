package account

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ErrInvalidCredentials is returned when the username is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login checks username and password against the stored plaintext
// credentials. A user stored without a password can never log in.
func (s *Service) Login(ctx context.Context, username, password string) error {
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		return err
	}
	u, ok := users[username]
	if !ok || u.Password == "" {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
