package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/middleware"
	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type RegisterRequest struct {
	FullName string `form:"fullName" validate:"required,notblank,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,notblank,max=50"`
	Password string `form:"password" validate:"required,notblank"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,notblank"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(w, r, h.cfg.Media, "avatar", "coverImage")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer up.cleanup()

	req := RegisterRequest{
		FullName: up.value("fullName"),
		Email:    up.value("email"),
		Username: up.value("username"),
		Password: up.value("password"),
	}
	if err := validateStruct(&req); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     up.file("avatar"),
		CoverImagePath: up.file("coverImage"),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)
	response.JSON(w, http.StatusOK, AuthResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

// RefreshToken accepts the refresh token from its cookie or the JSON body.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req RefreshRequest
		if err := decodeJSON(r, &req, true); err != nil {
			response.Error(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)
	response.JSON(w, http.StatusOK, map[string]string{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, "Access token refreshed")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), actorID(r)); err != nil {
		response.Error(w, r, err)
		return
	}

	clearAuthCookies(w, h.cfg)
	response.JSON(w, http.StatusOK, nil, "User logged out")
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, currentUser(r), "Current user fetched successfully")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	err := h.authService.ChangePassword(r.Context(), actorID(r), service.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, nil, "Password changed successfully")
}
