// Package store is the credential and history store: user accounts keyed by
// email, plus append-only upload records.
package store

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Learning-is-key/LegalLite/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Register creates a new account. The password is stored as a bcrypt hash.
// Duplicate emails are rejected by the unique constraint, so concurrent
// registrations of the same address cannot both succeed.
func (s *Store) Register(email, password string) error {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{Email: email, Password: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// isDuplicate reports whether err is a unique-constraint violation. The
// string check covers sqlite errors the dialector does not translate.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Authenticate returns the user iff the password matches the stored hash.
// A wrong password and an unknown email are indistinguishable to the caller.
func (s *Store) Authenticate(email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// RecordUpload appends one history row for the user.
func (s *Store) RecordUpload(email, filename, summary string) error {
	rec := models.Upload{Email: normalizeEmail(email), Filename: filename, Summary: summary}
	return s.db.Create(&rec).Error
}

// History returns the user's upload records in creation order.
func (s *Store) History(email string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := s.db.Where("email = ?", normalizeEmail(email)).Order("created_at ASC, id ASC").Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
