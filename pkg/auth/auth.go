package auth

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrConfirmationRequired = errors.New("sign out requires confirmation")
	ErrInvalidEmail         = errors.New("email has no local part")
)

// Store persists the signed-in display name. An empty name means signed out.
type Store interface {
	Load() (string, error)
	Save(name string) error
	Clear() error
}

// Identity is the injectable identity service. Views read the display name from
// it and write through it; nothing else holds the signed-in state.
type Identity struct {
	mu    sync.RWMutex
	store Store
	name  string
}

// NewIdentity loads the persisted display name from store. A store that cannot
// be read yields a signed-out identity and the read error.
func NewIdentity(store Store) (*Identity, error) {
	name, err := store.Load()
	if err != nil {
		return &Identity{store: store}, err
	}
	return &Identity{store: store, name: name}, nil
}

// DisplayName returns the signed-in name or "".
func (i *Identity) DisplayName() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.name
}

// SignedIn reports whether a display name is held.
func (i *Identity) SignedIn() bool {
	return i.DisplayName() != ""
}

// SignIn derives the display name from email and persists it.
func (i *Identity) SignIn(email string) (string, error) {
	name := DisplayNameFromEmail(email)
	if name == "" {
		return "", ErrInvalidEmail
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.store.Save(name); err != nil {
		return "", err
	}
	i.name = name
	return name, nil
}

// SignOut clears the persisted name. confirmed must be true; the caller is
// expected to have asked the user.
func (i *Identity) SignOut(confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.store.Clear(); err != nil {
		return err
	}
	i.name = ""
	return nil
}

// DisplayNameFromEmail returns the local part of email ("jane@x.com" -> "jane").
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	local, _, _ := strings.Cut(email, "@")
	return local
}

// MemoryStore keeps the display name in memory.
type MemoryStore struct {
	mu   sync.Mutex
	name string
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, nil
}

func (s *MemoryStore) Save(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Save("")
}
