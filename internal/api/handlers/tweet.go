package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

type TweetRequest struct {
	Content string `json:"content" validate:"required,notblank,max=500"`
}

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TweetRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	tweet, err := h.tweetService.Create(r.Context(), actorID(r), req.Content)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.tweetService.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, tweets, "User tweets fetched successfully")
}

func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TweetRequest
	if err := decodeJSON(r, &req, false); err != nil {
		response.Error(w, r, err)
		return
	}

	tweet, err := h.tweetService.Update(r.Context(), chi.URLParam(r, "tweetId"), actorID(r), req.Content)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tweetService.Delete(r.Context(), chi.URLParam(r, "tweetId"), actorID(r)); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, nil, "Tweet deleted successfully")
}
