package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo repository.UserRepository
	store    MediaStore
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, store MediaStore, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		store:    store,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	// Local temporary files. CoverImagePath may be empty.
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if input.AvatarPath == "" {
		return nil, domain.ErrAvatarRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	avatar, err := uploadAsset(ctx, s.store, input.AvatarPath, "avatar")
	if err != nil {
		return nil, err
	}
	var coverURL string
	if input.CoverImagePath != "" {
		cover, err := uploadAsset(ctx, s.store, input.CoverImagePath, "cover image")
		if err != nil {
			s.store.Delete(ctx, avatar.URL)
			return nil, err
		}
		coverURL = cover.URL
	}

	user := &domain.User{
		ID:           domain.NewID(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.store.Delete(ctx, avatar.URL)
		if coverURL != "" {
			s.store.Delete(ctx, coverURL)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	return user.Sanitized(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" && email == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "username or email is required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storeErr(err, "lookup user", domain.ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token, ending the user's session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new token pair. Only the most
// recently issued refresh token is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingToken
	}

	userID, err := s.parseSubject(refreshToken, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "load user", domain.ErrInvalidRefreshToken)
	}
	if user.RefreshToken != refreshToken {
		return nil, domain.ErrRefreshTokenReused
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	next, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, next)
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !swapped {
		return nil, domain.ErrRefreshTokenReused
	}

	return &AuthResult{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: next,
	}, nil
}

// Authenticate resolves an access token to the sanitized user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrMissingToken
	}

	userID, err := s.parseSubject(accessToken, s.cfg.AccessTokenSecret)
	if err != nil {
		return nil, domain.ErrInvalidAccessToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "load user", domain.ErrInvalidAccessToken)
	}
	return user.Sanitized(), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if input.OldPassword == input.NewPassword {
		return domain.ErrPasswordUnchanged
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return storeErr(err, "load user", domain.ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return domain.ErrInvalidOldPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password_hash": string(hashedPassword),
	}); err != nil {
		return storeErr(err, "update password", domain.ErrUserNotFound)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}
	return user.Sanitized(), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"fullName": user.FullName,
		"exp":      now.Add(s.cfg.AccessTokenExpiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.AccessTokenSecret))
}

// The jti keeps two refresh tokens issued within the same second distinct.
func (s *AuthService) generateRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": uuid.New().String(),
		"exp": now.Add(s.cfg.RefreshTokenExpiry).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.RefreshTokenSecret))
}

func (s *AuthService) parseSubject(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil || !domain.ValidID(sub) {
		return "", errors.New("invalid subject")
	}
	return sub, nil
}
