package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewUserHandler(userService *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{userService: userService, cfg: cfg}
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actorID(r), service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Profile updated successfully")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(w, r, h.cfg.Media, "avatar")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer up.cleanup()

	user, err := h.userService.UpdateAvatar(r.Context(), actorID(r), up.file("avatar"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(w, r, h.cfg.Media, "coverImage")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer up.cleanup()

	user, err := h.userService.UpdateCoverImage(r.Context(), actorID(r), up.file("coverImage"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Cover image updated successfully")
}

func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.ChannelProfile(r.Context(), chi.URLParam(r, "username"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, profile, "Channel profile fetched successfully")
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.userService.WatchHistory(r.Context(), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, history, "Watch history fetched successfully")
}
