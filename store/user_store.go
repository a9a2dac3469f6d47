package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"masterblog/models"
	"masterblog/utils"
)

// ErrUserExists is returned when registering an already-taken username.
var ErrUserExists = errors.New("user already exists")

// UserStore owns the user table. Accounts live for the process lifetime;
// they are never mutated or deleted after registration.
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: map[string]models.User{}}
}

// Register creates an account, storing only the bcrypt hash of the password.
func (s *UserStore) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return newValidationError("Missing username or password")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return ErrUserExists
	}
	s.users[username] = models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	return nil
}

// Verify checks credentials. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *UserStore) Verify(username, password string) bool {
	s.mu.Lock()
	user, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return utils.CheckPassword(user.PasswordHash, password)
}

// Get returns the stored user record.
func (s *UserStore) Get(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	return user, ok
}
