package store

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/batalabs/pinchat/internal/config"
	"github.com/batalabs/pinchat/internal/domain"

	_ "modernc.org/sqlite"
)

// CodeLength is the number of digits in an unlock code.
const CodeLength = 4

// ErrNoRecord is returned by Delete when there is nothing to remove.
var ErrNoRecord = errors.New("no credential record")

// Store persists the single secret/PIN record in SQLite. The secret is
// kept as entered; the PIN only as a bcrypt hash.
type Store struct {
	db       *sql.DB
	hashCost int
}

// Option configures a Store.
type Option func(*Store)

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// OpenStore opens (or creates) the SQLite database in the pinchat data directory.
func OpenStore(opts ...Option) (*Store, error) {
	dsn, err := config.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := os.Chmod(dsn, 0o600); err != nil {
		db.Close()
		return nil, fmt.Errorf("chmod db: %w", err)
	}

	s, err := NewFromDB(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB creates a Store from an existing *sql.DB and runs migrations.
// This is useful for testing with an in-memory database.
func NewFromDB(db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			secret TEXT NOT NULL,
			code_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}

// Existing returns the stored record, or nil when none exists.
func (s *Store) Existing() (*domain.CredentialRecord, error) {
	var (
		rec                  domain.CredentialRecord
		createdAt, updatedAt string
	)
	err := s.db.QueryRow(
		`SELECT secret, code_hash, created_at, updated_at FROM credentials WHERE id = 1`,
	).Scan(&rec.Secret, &rec.CodeHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// GenerateCode returns a uniformly random 4-digit numeral. The code is not
// derived from the secret, so a lost PIN can only be replaced by a reset.
func (s *Store) GenerateCode(_ string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// Save replaces the record with secret and the hash of code in a single
// statement; concurrent writers resolve to the last one.
func (s *Store) Save(secret, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO credentials (id, secret, code_hash, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			secret = excluded.secret,
			code_hash = excluded.code_hash,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		secret, string(hash), now, now,
	)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Verify reports whether code matches the stored record. It returns false
// when no record exists.
func (s *Store) Verify(code string) (bool, error) {
	var hash string
	err := s.db.QueryRow(`SELECT code_hash FROM credentials WHERE id = 1`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query code hash: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare code: %w", err)
	}
}

// Delete removes the record. It returns ErrNoRecord if there was none.
func (s *Store) Delete() error {
	res, err := s.db.Exec(`DELETE FROM credentials WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	if n == 0 {
		return ErrNoRecord
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
