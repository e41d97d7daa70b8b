package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spicehut/storefront/internal/kvstore"
)

var (
	ErrDuplicateUser      = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// User is the session projection of a registered user. It never carries
// the secret; order records also snapshot contact details separately, so
// later identity changes cannot reach back into past orders.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the caller-supplied part of a registration.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// userRecord is the registry entry: the projection plus the bcrypt hash.
// Only the registry snapshot carries the hash.
type userRecord struct {
	User
	SecretHash string `json:"secret_hash"`
}

// SessionStore owns the durable user registry and the current session.
// The registry is keyed by email; at most one user is current at a time.
type SessionStore struct {
	kv kvstore.Store

	mu       sync.Mutex
	registry map[string]userRecord
	current  *User
}

func NewSessionStore(kv kvstore.Store) *SessionStore {
	s := &SessionStore{
		kv:       kv,
		registry: make(map[string]userRecord),
	}
	loadSnapshot(kv, kvstore.KeyRegistry, &s.registry)
	if s.registry == nil {
		s.registry = make(map[string]userRecord)
	}
	var current User
	if loadSnapshot(kv, kvstore.KeyCurrentUser, &current) {
		s.current = &current
	}
	return s
}

// Register creates a user, persists the registry, and makes the new user
// the current session.
func (s *SessionStore) Register(profile Profile, secret string) (User, error) {
	if strings.TrimSpace(profile.Name) == "" || strings.TrimSpace(profile.Email) == "" {
		return User{}, errors.New("name and email are required")
	}
	if len(secret) < 6 {
		return User{}, errors.New("password must be at least 6 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry[profile.Email]; ok {
		return User{}, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:        uuid.New(),
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CreatedAt: time.Now().UTC(),
	}
	s.registry[profile.Email] = userRecord{User: user, SecretHash: string(hash)}

	if err := saveSnapshot(s.kv, kvstore.KeyRegistry, s.registry); err != nil {
		return user, err
	}
	s.current = &user
	if err := saveSnapshot(s.kv, kvstore.KeyCurrentUser, user); err != nil {
		return user, err
	}
	return user, nil
}

// Authenticate checks email and secret against the registry and, on
// success, makes the matching user the current session.
func (s *SessionStore) Authenticate(email, secret string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry[email]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.SecretHash), []byte(secret)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	user := rec.User
	s.current = &user
	if err := saveSnapshot(s.kv, kvstore.KeyCurrentUser, user); err != nil {
		return user, err
	}
	return user, nil
}

// ResetSecret overwrites the stored secret for an existing registry
// entry. The current session is left untouched.
func (s *SessionStore) ResetSecret(email, newSecret string) error {
	if len(newSecret) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry[email]
	if !ok {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	rec.SecretHash = string(hash)
	s.registry[email] = rec

	return saveSnapshot(s.kv, kvstore.KeyRegistry, s.registry)
}

// EndSession clears the current session. Calling it with no session is a
// no-op.
func (s *SessionStore) EndSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.kv.Delete(kvstore.KeyCurrentUser); err != nil {
		return ErrWriteFailed
	}
	return nil
}

// CurrentUser returns the current session projection, if any.
func (s *SessionStore) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

// Lookup returns the projection for an email without touching session
// state.
func (s *SessionStore) Lookup(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry[email]
	if !ok {
		return User{}, false
	}
	return rec.User, true
}
