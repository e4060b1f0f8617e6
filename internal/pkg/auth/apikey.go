package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost of API key hashes
const BcryptCost = 12

// HashAPIKey hashes an API key for the api_key_hash setting
func HashAPIKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckAPIKey compares a presented key with the configured hash, or with the
// plain key when no hash is configured.
func CheckAPIKey(provided, plainKey, hashedKey string) bool {
	if provided == "" {
		return false
	}
	if hashedKey != "" {
		return bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(provided)) == nil
	}
	if plainKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(plainKey)) == 1
}
