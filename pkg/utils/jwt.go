package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	ClaimUserID  = "id"
	ClaimTokenID = "jti"
)

type JWTPair struct {
	AccessToken     string        `json:"access_token"`
	AccessTokenExp  time.Duration `json:"access_token_exp"`
	RefreshToken    string        `json:"refresh_token"`
	RefreshTokenExp time.Duration `json:"refresh_token_exp"`
	// RefreshTokenID is the jti claim of the refresh token.
	RefreshTokenID string `json:"-"`
}

type GenerateJWTPairDto struct {
	Method        jwt.SigningMethod
	AccessSecret  []byte
	AccessClaims  jwt.MapClaims
	AccessExpiry  time.Duration
	RefreshSecret []byte
	RefreshClaims jwt.MapClaims
	RefreshExpiry time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// GenerateJWTPair signs an access and a refresh token. The refresh token
// gets a fresh jti claim unless one is already set.
func GenerateJWTPair(dto GenerateJWTPairDto) (*JWTPair, error) {
	if dto.Method == nil {
		dto.Method = jwt.SigningMethodHS256
	}
	if dto.Now == nil {
		dto.Now = time.Now
	}
	if dto.AccessClaims == nil {
		dto.AccessClaims = jwt.MapClaims{}
	}
	if dto.RefreshClaims == nil {
		dto.RefreshClaims = jwt.MapClaims{}
	}

	now := dto.Now()

	dto.AccessClaims["iat"] = now.Unix()
	dto.AccessClaims["exp"] = now.Add(dto.AccessExpiry).Unix()
	accessToken := jwt.NewWithClaims(dto.Method, dto.AccessClaims)
	accessTokenString, err := accessToken.SignedString(dto.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	tokenID, _ := dto.RefreshClaims[ClaimTokenID].(string)
	if tokenID == "" {
		tokenID = uuid.NewString()
		dto.RefreshClaims[ClaimTokenID] = tokenID
	}
	dto.RefreshClaims["iat"] = now.Unix()
	dto.RefreshClaims["exp"] = now.Add(dto.RefreshExpiry).Unix()
	refreshToken := jwt.NewWithClaims(dto.Method, dto.RefreshClaims)
	refreshTokenString, err := refreshToken.SignedString(dto.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &JWTPair{
		AccessToken:     accessTokenString,
		AccessTokenExp:  dto.AccessExpiry,
		RefreshToken:    refreshTokenString,
		RefreshTokenExp: dto.RefreshExpiry,
		RefreshTokenID:  tokenID,
	}, nil
}

// DecodeJWT verifies an HMAC-signed token and returns its claims.
func DecodeJWT(token string, secret []byte) (jwt.MapClaims, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// StringClaim returns a non-empty string claim or ErrInvalidToken.
func StringClaim(claims jwt.MapClaims, name string) (string, error) {
	value, ok := claims[name].(string)
	if !ok || value == "" {
		return "", ErrInvalidToken
	}
	return value, nil
}
