package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulytics/grade-analytics-api/internal/models"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
)

// AuthConfig defines configuration for the client-credentials flow.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	// Clients holds "client_id:bcrypt_hash" pairs.
	Clients []string
}

// AuthService issues and verifies access tokens for API clients.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	clients   map[string]string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	clients := make(map[string]string, len(config.Clients))
	for _, entry := range config.Clients {
		id, hash, ok := strings.Cut(entry, ":")
		if !ok || id == "" || hash == "" {
			logger.Warn("skipping malformed client credential entry")
			continue
		}
		clients[id] = hash
	}
	return &AuthService{validator: validate, logger: logger, config: config, clients: clients}
}

// Token authenticates a client and issues an access token.
func (s *AuthService) Token(req models.TokenRequest) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token payload")
	}

	hash, ok := s.clients[req.ClientID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "unknown client")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.ClientSecret)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid client secret")
	}

	now := time.Now().UTC()
	claims := models.TokenClaims{
		ClientID: req.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   req.ClientID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
	}, nil
}

// Verify parses and validates an access token, returning its claims.
func (s *AuthService) Verify(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
