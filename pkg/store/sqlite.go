package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fundspark/pkg/models"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// SQLiteStore persists the development backend in one SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// OpenSQLite opens path and creates the schema. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, target_amount, current_amount
		   FROM campaigns ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	result := make([]models.Campaign, 0)
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.TargetAmount, &c.CurrentAmount); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, title, description, target_amount, current_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Description, c.TargetAmount, c.CurrentAmount, toMillis(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Campaign{}, ErrConflict
		}
		return models.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) AddDonation(ctx context.Context, d models.DonationRecord) (models.DonationRecord, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.DonationRecord{}, fmt.Errorf("begin donation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE campaigns SET current_amount = current_amount + ? WHERE id = ?`,
		d.Amount, d.CampaignID)
	if err != nil {
		return models.DonationRecord{}, fmt.Errorf("update campaign amount: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.DonationRecord{}, err
	} else if n == 0 {
		return models.DonationRecord{}, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO donations (id, campaign_id, donor_name, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.CampaignID, d.DonorName, d.Amount, toMillis(d.CreatedAt)); err != nil {
		return models.DonationRecord{}, fmt.Errorf("insert donation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.DonationRecord{}, fmt.Errorf("commit donation: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, toMillis(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u         models.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, created_at FROM users WHERE email = ?`,
		NormalizeEmail(email)).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ Store = (*SQLiteStore)(nil)
