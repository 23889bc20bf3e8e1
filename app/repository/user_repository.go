package repository

import (
	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository menangani data pengguna, termasuk kebutuhan khusus
// penugasan reviewer (FindActiveReviewer).
type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(role model.Role) ([]model.User, error)
	Deactivate(id uuid.UUID) error

	// FindActiveReviewer mengambil user dengan role REVIEWER dan status AKTIF.
	// Dipakai oleh penugasan reviewer (precondition reviewer valid).
	FindActiveReviewer(id uuid.UUID) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Jurusan").Preload("Prodi").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll mengambil semua user, opsional difilter per role.
func (r *userRepository) FindAll(role model.Role) ([]model.User, error) {
	var users []model.User
	q := r.db.Preload("Jurusan").Preload("Prodi").Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&users).Error
	return users, err
}

// Deactivate menonaktifkan user (soft delete: status NONAKTIF).
func (r *userRepository) Deactivate(id uuid.UUID) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("status", model.UserNonaktif).Error
}

func (r *userRepository) FindActiveReviewer(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.
		Where("id = ? AND role = ? AND status = ?", id, model.RoleReviewer, model.UserAktif).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
