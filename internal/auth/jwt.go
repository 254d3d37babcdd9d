package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the access token payload
type Claims struct {
	jwt.RegisteredClaims
	DisplayName string   `json:"name"`
	Email       string   `json:"email"`
	RoleIDs     []string `json:"role_ids"`
	RoleNames   []string `json:"role_names"`
	CompanyID   string   `json:"company_id"`
}

// TokenManager issues and validates HMAC-signed access tokens
type TokenManager struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		tokenTTL: cfg.TokenTTLDuration(),
	}
}

// IssueToken signs an access token for the given user
func (m *TokenManager) IssueToken(user *UserContext) (string, error) {
	now := time.Now()

	roleIDs := make([]string, len(user.RoleIDs))
	for i, id := range user.RoleIDs {
		roleIDs[i] = id.String()
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			ID:        uuid.New().String(),
		},
		DisplayName: user.DisplayName,
		Email:       user.Email,
		RoleIDs:     roleIDs,
		RoleNames:   user.RoleNames,
		CompanyID:   string(user.CompanyID),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates an access token, returning user context
func (m *TokenManager) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}

	roleIDs := make([]uuid.UUID, 0, len(claims.RoleIDs))
	for _, raw := range claims.RoleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid role id %q", ErrInvalidToken, raw)
		}
		roleIDs = append(roleIDs, id)
	}

	return &UserContext{
		UserID:      userID,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		RoleIDs:     roleIDs,
		RoleNames:   claims.RoleNames,
		CompanyID:   domain.CompanyID(claims.CompanyID),
	}, nil
}
