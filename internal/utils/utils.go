package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// GenerateAccountNumber generates a unique human-facing account number:
// "ACC" + millisecond timestamp + 3 random digits.
func GenerateAccountNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(1000))
	return fmt.Sprintf("ACC%d%03d", time.Now().UnixMilli(), num.Int64())
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
