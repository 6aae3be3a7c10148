package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
)

const DefaultTokenDuration = 15 * time.Minute

// AccessTokenClaims carry the caller's account id. Tokens are issued by the
// trusted off-chain gateway sharing JWT_SECRET with this service.
type AccessTokenClaims struct {
	Account string `json:"account"`
	jwt.StandardClaims
}

type JWTManagerInterface interface {
	GenerateAccessJWT(account string, duration time.Duration) (string, error)
	ValidateAccessToken(tokenString string) (string, error)
}

type JWTManager struct {
	secret string
}

func NewJWTManager() (*JWTManager, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &JWTManager{secret: jwtSecret}, nil
}

func (j *JWTManager) GenerateAccessJWT(account string, duration time.Duration) (string, error) {
	claims := &AccessTokenClaims{
		Account: account,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// ValidateAccessToken returns the account id carried by a valid token.
func (j *JWTManager) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secret), nil
	})
	if err != nil {
		var validationError *jwt.ValidationError
		if errors.As(err, &validationError) && validationError.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrExpiredJWTToken
		}
		return "", ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid || claims.Account == "" {
		return "", ErrInvalidJWTToken
	}
	return claims.Account, nil
}
