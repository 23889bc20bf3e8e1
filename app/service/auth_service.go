package service

import (
	"errors"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService menangani registrasi dan login.
type AuthService interface {
	Register(user *model.User, password string) error
	Login(email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register menyimpan user baru dengan password yang sudah di-hash.
// Registrasi mandiri hanya untuk MAHASISWA dan DOSEN; akun REVIEWER dan
// ADMIN dibuat lewat user management admin.
func (s *authService) Register(user *model.User, password string) error {
	if user.Role != model.RoleMahasiswa && user.Role != model.RoleDosen {
		return invalid("registrasi hanya untuk mahasiswa atau dosen")
	}

	if _, err := s.userRepo.FindByEmail(user.Email); err == nil {
		return conflict("email sudah terdaftar")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Status = model.UserAktif

	return s.userRepo.Create(user)
}

// Login mengecek email + password dan memastikan akun masih AKTIF.
func (s *authService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.New("email atau password salah")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("email atau password salah")
	}

	if user.Status != model.UserAktif {
		return nil, errors.New("akun sudah dinonaktifkan")
	}

	return user, nil
}
