package utils

import (
	"errors"
	"os"
	"time"

	"research-proposal-backend/app/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTCustomClaims menyimpan identitas yang dibutuhkan oleh access policy:
// UserID untuk pengecekan kepemilikan, Role untuk pengecekan peran.
type JWTCustomClaims struct {
	UserID uuid.UUID  `json:"userId"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// getJWTSecret membaca JWT_SECRET dari environment setiap kali dipanggil,
// supaya tidak bermasalah ketika .env baru di-load setelah package di-import.
func getJWTSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	return []byte(secret), nil
}

// GenerateToken membuat access token (berlaku 24 jam) berisi userID dan role.
func GenerateToken(userID uuid.UUID, role model.Role) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}

	claims := JWTCustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken memvalidasi JWT (signing method HMAC, expiry) dan
// mengembalikan claims-nya.
func ValidateToken(tokenString string) (*JWTCustomClaims, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTCustomClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
