package service

import (
	"errors"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUserInput adalah payload admin saat membuat user baru.
type CreateUserInput struct {
	Nama           string
	Email          string
	Password       string
	Role           model.Role
	JurusanID      *uuid.UUID
	ProdiID        *uuid.UUID
	BidangKeahlian string
}

// UpdateUserInput memakai pointer untuk semantik partial update:
// hanya field yang dikirim yang diubah.
type UpdateUserInput struct {
	Nama           *string
	Email          *string
	Role           *model.Role
	Status         *model.UserStatus
	JurusanID      *uuid.UUID
	ProdiID        *uuid.UUID
	BidangKeahlian *string
}

// UserService adalah user management untuk admin + update profil sendiri.
type UserService interface {
	Create(input CreateUserInput) (*model.User, error)
	Update(id uuid.UUID, input UpdateUserInput) (*model.User, error)
	Deactivate(id uuid.UUID) error
	GetAll(role model.Role) ([]model.User, error)
	GetByID(id uuid.UUID) (*model.User, error)
	UpdateProfile(id uuid.UUID, nama, bidangKeahlian string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func validRole(r model.Role) bool {
	switch r {
	case model.RoleAdmin, model.RoleDosen, model.RoleMahasiswa, model.RoleReviewer:
		return true
	}
	return false
}

func (s *userService) Create(input CreateUserInput) (*model.User, error) {
	if input.Nama == "" || input.Email == "" || input.Password == "" {
		return nil, invalid("nama, email, dan password wajib diisi")
	}
	if !validRole(input.Role) {
		return nil, invalid("role tidak dikenal")
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, conflict("email sudah terdaftar")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Nama:           input.Nama,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Role:           input.Role,
		Status:         model.UserAktif,
		JurusanID:      input.JurusanID,
		ProdiID:        input.ProdiID,
		BidangKeahlian: input.BidangKeahlian,
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Update(id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user tidak ditemukan")
		}
		return nil, err
	}

	if input.Nama != nil {
		user.Nama = *input.Nama
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
			return nil, conflict("email sudah terdaftar")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, invalid("role tidak dikenal")
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.JurusanID != nil {
		user.JurusanID = input.JurusanID
	}
	if input.ProdiID != nil {
		user.ProdiID = input.ProdiID
	}
	if input.BidangKeahlian != nil {
		user.BidangKeahlian = *input.BidangKeahlian
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate menonaktifkan akun; user tidak pernah dihapus permanen.
func (s *userService) Deactivate(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user tidak ditemukan")
		}
		return err
	}
	return s.userRepo.Deactivate(id)
}

func (s *userService) GetAll(role model.Role) ([]model.User, error) {
	return s.userRepo.FindAll(role)
}

func (s *userService) GetByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user tidak ditemukan")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile dipakai user untuk mengubah datanya sendiri (bukan role/status).
func (s *userService) UpdateProfile(id uuid.UUID, nama, bidangKeahlian string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user tidak ditemukan")
		}
		return nil, err
	}
	if nama != "" {
		user.Nama = nama
	}
	if bidangKeahlian != "" {
		user.BidangKeahlian = bidangKeahlian
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
