package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired indicates the token's expiry timestamp has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, malformed encodings and
	// missing required claims.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims defines the JWT payload bound to a session. Subject carries the
// user's email, UserID the store identifier. Both are claims only: callers
// must re-check the user still exists before trusting them for mutation.
type Claims struct {
	UserID string `json:"user_id"`
	jwtlib.RegisteredClaims
}

// TokenIssuer signs and validates session tokens with a shared secret.
// There is no revocation list: a compromised token stays valid until its
// natural expiry.
type TokenIssuer struct {
	secret []byte
	method *jwtlib.SigningMethodHMAC
	ttl    time.Duration
}

var signingMethods = map[string]*jwtlib.SigningMethodHMAC{
	"HS256": jwtlib.SigningMethodHS256,
	"HS384": jwtlib.SigningMethodHS384,
	"HS512": jwtlib.SigningMethodHS512,
}

// NewTokenIssuer constructs a TokenIssuer. The secret and algorithm are
// process-wide settings; an empty secret or unsupported algorithm is a
// startup error, never a per-request one.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("empty signing secret")
	}
	method, ok := signingMethods[strings.ToUpper(strings.TrimSpace(algorithm))]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// Issue creates a signed token for the user. Expiry is issue time plus the
// configured ttl.
func (ti *TokenIssuer) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "accounts",
			Subject:   email,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(ti.method, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies the signature first, then expiry, and returns the embedded
// claims. Expiry is inclusive: a token whose expiry equals the current time
// is already expired.
func (ti *TokenIssuer) Parse(token string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwtlib.WithValidMethods([]string{ti.method.Name}))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
