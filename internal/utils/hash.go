package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// DigestSKU returns the hex sha256 digest of a plaintext SKU. The digest is
// the only stored form of the SKU and the sole duplicate-detection key.
func DigestSKU(sku string) string {
	sum := sha256.Sum256([]byte(sku))
	return hex.EncodeToString(sum[:])
}
