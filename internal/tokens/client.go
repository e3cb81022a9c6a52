package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "kmd-storefront"

// ClientClaims identify one browser. The subject is the storage namespace of that
// browser's cart and session.
type ClientClaims struct {
	jwt.RegisteredClaims
}

func NewClientToken(clientID string, exp time.Time, secret []byte) (string, error) {
	if clientID == "" {
		return "", errors.New("empty client id")
	}
	now := time.Now().UTC()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ClientClaimsFromToken(tokenStr string, secret []byte) (*ClientClaims, error) {
	var claims ClientClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid client token")
	}
	return &claims, nil
}
