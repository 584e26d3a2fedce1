package services

import (
	"github.com/rs/zerolog/log"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
	"github.com/hamza/campuscard/internal/pkg/auth"
)

// AuthService authenticates the single admin account configured for
// the deployment and issues access tokens.
type AuthService struct {
	jwtService        *auth.JWTService
	adminUsername     string
	adminPasswordHash string
}

// NewAuthService creates a new authentication service instance
func NewAuthService(jwtService *auth.JWTService, adminUsername, adminPasswordHash string) *AuthService {
	return &AuthService{
		jwtService:        jwtService,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login verifies the admin credentials and returns a signed access
// token. Wrong username and wrong password produce the same error.
func (s *AuthService) Login(username, password string) (*dto.LoginResponse, error) {
	if username != s.adminUsername || !auth.CheckPassword(s.adminPasswordHash, password) {
		log.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
