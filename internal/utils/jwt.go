package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SamarthKalavadia/hospital-management-system/internal/appointments"
	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// Claims represents the JWT claims of an access or refresh token.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTokens generates both access and refresh tokens for a user.
func GenerateTokens(user *models.User, cfg *config.Config) (accessToken string, refreshToken string, err error) {
	now := time.Now()
	accessToken, err = signUserToken(user, now, time.Duration(cfg.JWTExpirationMinutes)*time.Minute, cfg.JWTSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err = signUserToken(user, now, RefreshTTL(cfg), cfg.JWTRefreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// RefreshTTL is how long a refresh token stays usable.
func RefreshTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.JWTRefreshExpirationHours) * time.Hour
}

func signUserToken(user *models.User, now time.Time, ttl time.Duration, secret string) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	if err := parseHMAC(tokenString, secretKey, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseHMAC(tokenString, secretKey string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

type actionClaims struct {
	AppointmentID string              `json:"appointment_id"`
	DoctorID      string              `json:"doctor_id"`
	Action        appointments.Action `json:"action"`
	jwt.RegisteredClaims
}

// ActionTokenIssuer signs the approve/reject links emailed to doctors.
type ActionTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewActionTokenIssuer(secret string, ttl time.Duration) *ActionTokenIssuer {
	return &ActionTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *ActionTokenIssuer) Issue(c appointments.ActionClaims) (string, error) {
	now := i.now()
	claims := &actionClaims{
		AppointmentID: c.AppointmentID,
		DoctorID:      c.DoctorID,
		Action:        c.Action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.AppointmentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *ActionTokenIssuer) Parse(token string) (appointments.ActionClaims, error) {
	claims := &actionClaims{}
	if err := parseHMAC(token, string(i.secret), claims); err != nil {
		return appointments.ActionClaims{}, err
	}
	if claims.AppointmentID == "" {
		return appointments.ActionClaims{}, fmt.Errorf("token names no appointment")
	}
	return appointments.ActionClaims{
		AppointmentID: claims.AppointmentID,
		DoctorID:      claims.DoctorID,
		Action:        claims.Action,
	}, nil
}
