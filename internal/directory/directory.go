// Package directory resolves user accounts into the contact details the
// domain services need for notifications and documents.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SamarthKalavadia/hospital-management-system/internal/apperr"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

var (
	ErrUserNotFound = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrEmailTaken   = apperr.Conflict("EMAIL_TAKEN", "user with this email already exists")
)

// Contact is the addressable view of a user.
type Contact struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Gender string
	Role   models.Role
}

func contactOf(u *models.User) Contact {
	return Contact{
		ID:     u.ID,
		Name:   u.FullName(),
		Email:  u.Email,
		Phone:  u.PhoneNumber,
		Gender: u.Gender,
		Role:   u.Role,
	}
}

// Store reads users from MySQL.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Contact loads one user's contact details.
func (s *Store) Contact(ctx context.Context, userID string) (Contact, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return Contact{}, err
	}
	return contactOf(&u), nil
}

// Get loads a full user record.
func (s *Store) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail loads a user by email, ignoring case.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. The email must not be registered yet.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
	}
	return err
}

// Save writes every column of an existing user.
func (s *Store) Save(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
	}
	return err
}

// DefaultDoctor returns the earliest registered doctor. Patient bookings
// that do not name a doctor are assigned to them.
func (s *Store) DefaultDoctor(ctx context.Context) (Contact, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleDoctor).
		Order("created_at asc").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Contact{}, fmt.Errorf("%w: no doctor registered", ErrUserNotFound)
		}
		return Contact{}, err
	}
	return contactOf(&u), nil
}

// SearchLimit caps the users returned for a search query.
const SearchLimit = 12

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListByRole returns users with role, ordered by name. A non-empty query
// keeps only those whose name, email or phone contains it, at most
// SearchLimit of them.
func (s *Store) ListByRole(ctx context.Context, role models.Role, query string) ([]models.User, error) {
	q := s.db.WithContext(ctx).Where("role = ?", role)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + likeEscaper.Replace(query) + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone_number LIKE ?", like, like, like, like).
			Limit(SearchLimit)
	}

	var users []models.User
	err := q.Order("first_name asc, last_name asc").Find(&users).Error
	return users, err
}

// Count returns the number of users with role.
func (s *Store) Count(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// Delete removes a user and their refresh tokens.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil
	})
}
