package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type VideoHandler struct {
	videoService *service.VideoService
	cfg          *config.Config
}

func NewVideoHandler(videoService *service.VideoService, cfg *config.Config) *VideoHandler {
	return &VideoHandler{videoService: videoService, cfg: cfg}
}

type PublishVideoRequest struct {
	Title       string `form:"title" validate:"required,notblank,max=200"`
	Description string `form:"description" validate:"required,notblank"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description"`
}

// List supports ?query=, ?userId= and the usual pagination parameters.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	videos, err := h.videoService.List(r.Context(), service.ListVideosInput{
		Query:    r.URL.Query().Get("query"),
		OwnerID:  r.URL.Query().Get("userId"),
		ViewerID: actorID(r),
		Page:     page,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, videos, "Videos fetched successfully")
}

func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(w, r, h.cfg.Media, "videoFile", "thumbnail")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer up.cleanup()

	req := PublishVideoRequest{
		Title:       up.value("title"),
		Description: up.value("description"),
	}
	if err := validateStruct(&req); err != nil {
		response.Error(w, r, err)
		return
	}

	video, err := h.videoService.Publish(r.Context(), actorID(r), service.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     up.file("videoFile"),
		ThumbnailPath: up.file("thumbnail"),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.Get(r.Context(), chi.URLParam(r, "videoId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req UpdateVideoRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	video, err := h.videoService.UpdateDetails(r.Context(), chi.URLParam(r, "videoId"), actorID(r), service.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(w, r, h.cfg.Media, "thumbnail")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	defer up.cleanup()

	video, err := h.videoService.UpdateThumbnail(r.Context(), chi.URLParam(r, "videoId"), actorID(r), up.file("thumbnail"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video thumbnail updated successfully")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.videoService.Delete(r.Context(), chi.URLParam(r, "videoId"), actorID(r)); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, nil, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.TogglePublish(r.Context(), chi.URLParam(r, "videoId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video publish status toggled successfully")
}
