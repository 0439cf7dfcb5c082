package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = time.Hour * 24 * 2

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is what a session token proves about its bearer.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin      bool `json:"isAdmin"`
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

type Principal struct {
	SubjectID    uuid.UUID
	IsAdmin      bool
	IsSuperAdmin bool
}

// Elevated reports whether the principal holds either privileged flag.
func (p Principal) Elevated() bool {
	return p.IsAdmin || p.IsSuperAdmin
}

type TokenIssuer struct {
	method jwt.SigningMethod
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		method: jwt.SigningMethodHS256,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *TokenIssuer) Issue(p Principal) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(i.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		IsAdmin:      p.IsAdmin,
		IsSuperAdmin: p.IsSuperAdmin,
	})

	return token.SignedString(i.secret)
}

// Verify returns ErrTokenExpired for a well-signed token past its expiry and
// ErrInvalidToken for every other failure.
func (i *TokenIssuer) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		SubjectID:    id,
		IsAdmin:      claims.IsAdmin,
		IsSuperAdmin: claims.IsSuperAdmin,
	}, nil
}
