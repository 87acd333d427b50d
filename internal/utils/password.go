package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a registration password with the
// configured cost.  The hash is what gets stored on the user document;
// the plain text never leaves the request.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether a login attempt matches the stored
// bcrypt hash.  The comparison is constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
