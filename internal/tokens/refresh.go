package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

func SignRefresh(claims RefreshClaims, refreshSecret []byte) (string, error) {
	claims.TokenType = RefreshTokenType
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(refreshSecret)
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != RefreshTokenType {
		return nil, errors.New("not a refresh token")
	}
	return &claims, nil
}
