package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	comments, err := h.commentService.List(r.Context(), chi.URLParam(r, "videoId"), actorID(r), page)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, comments, "Comments fetched successfully")
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	comment, err := h.commentService.Add(r.Context(), chi.URLParam(r, "videoId"), actorID(r), req.Content)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, comment, "Comment added successfully")
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	comment, err := h.commentService.Update(r.Context(), chi.URLParam(r, "commentId"), actorID(r), req.Content)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, comment, "Comment updated successfully")
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.commentService.Delete(r.Context(), chi.URLParam(r, "commentId"), actorID(r)); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, nil, "Comment deleted successfully")
}
