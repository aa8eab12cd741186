// internal/auth/auth.go
//
// Player authentication helpers.
// Responsibilities:
//   - Signup input validation.
//   - bcrypt password hashing/verification.
//   - HS256 JWT signing and parsing (id + name claims).

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrBadUsername  = errors.New("username must be 3–24 chars: letters, numbers, underscore")
	ErrBadPassword  = errors.New("password must be 8–100 chars")
)

// Claims identifies a signed-in player.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(u string) string { return strings.TrimSpace(u) }

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return ErrBadUsername
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ErrBadUsername
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return ErrBadPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Signer issues and verifies tokens with one shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a Signer. ttl is the token lifetime.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for the player and its expiry.
func (s *Signer) Sign(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// Parse verifies token and extracts its claims.
func (s *Signer) Parse(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := mc["id"].(string)
	name, _ := mc["username"].(string)
	if id == "" || name == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: name}, nil
}
