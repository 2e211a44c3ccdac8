package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/pointsclub/internal/models"
)

// tokenTTL is admin session lifetime
const tokenTTL = 24 * time.Hour

// generatedKeySize is the length of a signing key made when none is configured
const generatedKeySize = 32

var ErrInvalidToken = errors.New("invalid token")

// SigningKey decodes hex key. An empty key yields a random one, generated is true then
// and tokens do not survive a restart.
func SigningKey(hexKey string) (key []byte, generated bool, err error) {
	if hexKey == "" {
		key = make([]byte, generatedKeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, false, err
		}
		return key, true, nil
	}

	key, err = hex.DecodeString(hexKey)
	if err != nil {
		return nil, false, err
	}
	if len(key) == 0 {
		return nil, false, errors.New("empty token key")
	}

	return key, false, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Token creates and verifies HS256 signed admin tokens
type Token struct {
	key []byte
	now func() time.Time
}

// NewAuthToken creates new Token with signing key
func NewAuthToken(key []byte) *Token {
	return &Token{
		key: key,
		now: time.Now,
	}
}

// CreateToken returns signed token for admin
func (t *Token) CreateToken(admin *models.Admin) (string, error) {
	now := t.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.key)
}

// VerifyToken checks token signature and expiry and returns its payload
func (t *Token) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	c := claims{}
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	payload := &models.TokenPayload{Login: c.Subject}
	if c.IssuedAt != nil {
		payload.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		payload.ExpiresAt = c.ExpiresAt.Time
	}

	return payload, nil
}
