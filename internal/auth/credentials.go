package auth

import (
	"errors"
)

// The several login endpoints (owner, admin, staff, email) all verify a PIN or
// password through this one primitive so failure messages stay uniform.
var (
	ErrCredentialNotSet   = errors.New("credential not set")
	ErrCredentialMismatch = errors.New("credential mismatch")
)

// VerifyCredential checks a plaintext PIN or password against a bcrypt hash.
func VerifyCredential(plain, hash string) error {
	if hash == "" {
		return ErrCredentialNotSet
	}
	if !CheckPasswordHash(plain, hash) {
		return ErrCredentialMismatch
	}
	return nil
}

// ValidatePIN enforces the 4-6 digit PIN format.
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return errors.New("PIN must be 4-6 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errors.New("PIN must be 4-6 digits")
		}
	}
	return nil
}
