package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPIN = errors.New("incorrect PIN")

// HashPIN hashes a PIN with bcrypt for storage.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPIN compares a candidate PIN against a stored hash.
func VerifyPIN(hash, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrWrongPIN
	}
	return nil
}
