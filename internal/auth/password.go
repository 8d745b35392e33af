package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext using bcrypt at the given cost. A cost of
// zero selects bcrypt.DefaultCost.
func HashPassword(plain string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(plain), cost)
}

// VerifyPassword reports whether plain matches the stored hash. Mismatches
// and malformed stored hashes both report false.
func VerifyPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
