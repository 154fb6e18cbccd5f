package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uidelink/uidelink-backend/internal/config"
)

// GenerateSessionToken produces an opaque unique session token for a student.
func GenerateSessionToken() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%d", uuid.NewString(), time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])
}

// HashIdentifier hashes a device or network identifier down to 16 hex chars
// for scan metadata. Identifiers are never stored raw.
func HashIdentifier(value string) string {
	if value == "" {
		return ""
	}
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])[:16]
}

// GenerateJWT generates a signed admin JWT
func GenerateJWT(userID, email, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Duration(cfg.JWT.ExpiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}
