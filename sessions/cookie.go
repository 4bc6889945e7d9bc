package sessions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"golang.org/x/crypto/hkdf"
)

const cookieKeyInfo = "connect-onboarding session cookie v1"

// CookieCodec signs and verifies session cookie values. The value is an HS256
// JWT whose jti is the session ID; the signing key is derived from the app
// secret with HKDF so the raw secret is never used as a MAC key.
type CookieCodec struct {
	key    []byte
	issuer string
}

func NewCookieCodec(appSecret, issuer string) (*CookieCodec, error) {
	if appSecret == "" {
		return nil, errors.New("[sessions NewCookieCodec] app secret is required")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(appSecret), nil, []byte(cookieKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("[sessions NewCookieCodec] derive key: %w", err)
	}
	return &CookieCodec{key: key, issuer: issuer}, nil
}

func (c *CookieCodec) Encode(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("[sessions Encode] %w", err)
	}
	return signed, nil
}

// Decode returns the session ID of a valid, unexpired cookie value.
func (c *CookieCodec) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrSessionExpired
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return "", apperrors.ErrInvalidSession
	}
	return claims.ID, nil
}
