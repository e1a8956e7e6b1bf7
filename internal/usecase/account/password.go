package account

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/clinic-server/internal/config"
)

// Passwords hashes and checks credentials in the configured mode.
type Passwords struct {
	mode string
}

func NewPasswords(mode string) Passwords {
	return Passwords{mode: mode}
}

func (p Passwords) Hash(plain string) (string, error) {
	if p.mode != config.PasswordBcrypt {
		return plain, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (p Passwords) Match(stored, plain string) bool {
	if p.mode == config.PasswordBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
