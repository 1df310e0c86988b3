package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ExportClaims authorizes one month's xlsx download
type ExportClaims struct {
	MonthKey string `json:"month"`
	jwt.RegisteredClaims
}

// URLSignerService generates and validates signed export links
type URLSignerService struct {
	secretKey []byte
	now       Clock
}

func NewURLSignerService(secretKey []byte, now Clock) *URLSignerService {
	if now == nil {
		now = time.Now
	}
	return &URLSignerService{secretKey: secretKey, now: now}
}

// SignExport returns a token valid for ttl and its expiry
func (s *URLSignerService) SignExport(monthKey string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := ExportClaims{
		MonthKey: monthKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateExport returns the month key carried by a valid, unexpired token
func (s *URLSignerService) ValidateExport(tokenString string) (string, error) {
	claims := &ExportClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.MonthKey == "" {
		return "", errors.New("missing month claim")
	}
	return claims.MonthKey, nil
}
