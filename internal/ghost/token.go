package ghost

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenAudience = "/admin/"
	tokenLifetime = 5 * time.Minute
)

// ErrInvalidKey is returned for admin keys not in "id:hexsecret" form.
var ErrInvalidKey = errors.New("admin key must be in id:secret form with a hex secret")

// adminKey is a parsed Admin API key.
type adminKey struct {
	id     string
	secret []byte
}

func parseAdminKey(raw string) (adminKey, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || id == "" || secret == "" {
		return adminKey{}, ErrInvalidKey
	}
	decoded, err := hex.DecodeString(secret)
	if err != nil {
		return adminKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return adminKey{id: id, secret: decoded}, nil
}

// token signs a short-lived HS256 admin token issued at now.
func (k adminKey) token(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"aud": tokenAudience,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["kid"] = k.id

	signed, err := tok.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}
