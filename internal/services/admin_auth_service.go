package services

import (
	"errors"
	"strings"

	"github.com/apexdrive/rental-backend/internal/config"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/apexdrive/rental-backend/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any credential mismatch. Email and
// password failures are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminAuthService authenticates the fleet admin against env-configured
// credentials and issues JWT token pairs
type AdminAuthService struct {
	cfg        config.AdminConfig
	jwtCfg     config.JWTConfig
	jwtService *jwt.Service
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(cfg config.AdminConfig, jwtCfg config.JWTConfig, jwtService *jwt.Service) *AdminAuthService {
	return &AdminAuthService{
		cfg:        cfg,
		jwtCfg:     jwtCfg,
		jwtService: jwtService,
	}
}

// adminID derives a stable identifier from the admin email so tokens issued
// across restarts reference the same subject
func (s *AdminAuthService) adminID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("apexdrive-admin:"+strings.ToLower(s.cfg.Email)))
}

// Login verifies the admin credentials and returns a token pair
func (s *AdminAuthService) Login(email, password string) (*models.AdminLoginResponse, error) {
	if s.cfg.Email == "" || s.cfg.PasswordHash == "" {
		return nil, errors.New("admin login is not configured")
	}

	if !strings.EqualFold(email, s.cfg.Email) {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens()
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AdminAuthService) RefreshToken(refreshToken string) (*models.AdminLoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	// Reject tokens issued for a since-changed admin identity
	if !strings.EqualFold(claims.Email, s.cfg.Email) {
		return nil, errors.New("refresh token does not match the configured admin")
	}

	return s.issueTokens()
}

func (s *AdminAuthService) issueTokens() (*models.AdminLoginResponse, error) {
	adminID := s.adminID()

	accessToken, err := s.jwtService.GenerateAccessToken(adminID, s.cfg.Email, []string{"admin"})
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(adminID, s.cfg.Email)
	if err != nil {
		return nil, err
	}

	return &models.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtCfg.AccessTokenExpiry.Seconds()),
		Email:        s.cfg.Email,
	}, nil
}
