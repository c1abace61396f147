package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fundspark/pkg/config"
	"fundspark/pkg/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the persistence of the development backend.
type Store interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error)
	// AddDonation records d and adds its amount to the campaign's current
	// amount. An unknown campaign is ErrNotFound.
	AddDonation(ctx context.Context, d models.DonationRecord) (models.DonationRecord, error)
	// CreateUser fails with ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	Close() error
}

// Open returns the store kind named by cfg under cfg.DataDir.
func Open(cfg config.DevAPIConfig) (Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, err
		}
		return OpenSQLite(filepath.Join(cfg.DataDir, "fundspark.db"))
	case config.StoreJSON, "":
		return NewFileStore(cfg.DataDir)
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Store)
}

// NormalizeEmail is the lookup key of a user.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FileStore provides JSON file-based storage for application data
type FileStore struct {
	dataDir   string
	mu        sync.RWMutex
	campaigns []models.Campaign
	donations []models.DonationRecord
	users     []models.User
}

// NewFileStore creates a FileStore, loading any data already in dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &FileStore{
		dataDir:   dataDir,
		campaigns: make([]models.Campaign, 0),
		donations: make([]models.DonationRecord, 0),
		users:     make([]models.User, 0),
	}

	// Load existing data
	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) file(name string) string {
	return filepath.Join(s.dataDir, name+".json")
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := readJSON(s.file("campaigns"), &s.campaigns); err != nil {
		return fmt.Errorf("load campaigns: %w", err)
	}
	if err := readJSON(s.file("donations"), &s.donations); err != nil {
		return fmt.Errorf("load donations: %w", err)
	}
	if err := readJSON(s.file("users"), &s.users); err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No data yet
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *FileStore) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.file(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.file(name))
}

// ListCampaigns returns all campaigns
func (s *FileStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Campaign, len(s.campaigns))
	copy(result, s.campaigns)
	return result, nil
}

// CreateCampaign adds a new campaign
func (s *FileStore) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return models.Campaign{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.campaigns = append(s.campaigns, c)
	if err := s.save("campaigns", s.campaigns); err != nil {
		s.campaigns = s.campaigns[:len(s.campaigns)-1]
		return models.Campaign{}, err
	}
	return c, nil
}

// AddDonation records a donation and raises the campaign's current amount
func (s *FileStore) AddDonation(ctx context.Context, d models.DonationRecord) (models.DonationRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.DonationRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.campaigns {
		if c.ID == d.CampaignID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.DonationRecord{}, ErrNotFound
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	s.donations = append(s.donations, d)
	if err := s.save("donations", s.donations); err != nil {
		s.donations = s.donations[:len(s.donations)-1]
		return models.DonationRecord{}, err
	}
	s.campaigns[idx].CurrentAmount += d.Amount
	if err := s.save("campaigns", s.campaigns); err != nil {
		s.campaigns[idx].CurrentAmount -= d.Amount
		s.donations = s.donations[:len(s.donations)-1]
		if rerr := s.save("donations", s.donations); rerr != nil {
			err = errors.Join(err, fmt.Errorf("roll back donation: %w", rerr))
		}
		return models.DonationRecord{}, err
	}
	return d, nil
}

// CreateUser adds a new user
func (s *FileStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = NormalizeEmail(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.User{}, ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users = append(s.users, u)
	if err := s.save("users", s.users); err != nil {
		s.users = s.users[:len(s.users)-1]
		return models.User{}, err
	}
	return u, nil
}

// GetUserByEmail returns a user by email
func (s *FileStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
