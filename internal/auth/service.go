package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer signs and verifies session tokens. A token's id (jti) is the client
// id its session flags are stored under.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer uses secret when set, otherwise an ephemeral random secret that
// invalidates every token on restart.
func NewIssuer(secret string, ttl time.Duration, log *zap.Logger) (*Issuer, error) {
	key := []byte(strings.TrimSpace(secret))
	if len(key) == 0 {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate JWT fallback secret: %w", err)
		}
		key = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Warn("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	}
	return &Issuer{secret: key, ttl: ttl, now: time.Now}, nil
}

// Claims is what a verified token carries.
type Claims struct {
	ClientID string
	Email    string
}

// NewClientID returns an id for a new client's session.
func NewClientID() string {
	return uuid.NewString()
}

// ExpiresAt is when a token issued now stops verifying.
func (i *Issuer) ExpiresAt() time.Time {
	return i.now().Add(i.ttl)
}

// Issue signs a token binding clientID to the signed-in email.
func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"jti": c.ClientID,
		"sub": c.Email,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if _, err := uuid.Parse(jti); err != nil {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ClientID: jti, Email: sub}, nil
}
