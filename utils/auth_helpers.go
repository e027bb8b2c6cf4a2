package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain text password for storage on a user.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a stored hash with a login attempt. Users created
// without a password have an empty hash and always pass.
func CheckPassword(hash, pw string) error {
	if hash == "" {
		return nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
