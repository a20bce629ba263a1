package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank"`
}

type UpdatePlaylistRequest struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), actorID(r), service.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistService.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, playlists, "User playlists fetched successfully")
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.playlistService.Detail(r.Context(), chi.URLParam(r, "playlistId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, detail, "Playlist fetched successfully")
}

func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlistService.AddVideo(r.Context(),
		chi.URLParam(r, "videoId"), chi.URLParam(r, "playlistId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlistService.RemoveVideo(r.Context(),
		chi.URLParam(r, "videoId"), chi.URLParam(r, "playlistId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Video removed from playlist successfully")
}

func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlaylistRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), chi.URLParam(r, "playlistId"), actorID(r), service.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.playlistService.Delete(r.Context(), chi.URLParam(r, "playlistId"), actorID(r)); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, nil, "Playlist deleted successfully")
}
