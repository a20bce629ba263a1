package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

type ToggleSubscriptionResponse struct {
	State domain.SubscriptionState `json:"state"`
}

func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	state, err := h.subscriptionService.Toggle(r.Context(), chi.URLParam(r, "channelId"), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	message := "Subscribed successfully"
	if state == domain.Unsubscribed {
		message = "Unsubscribed successfully"
	}
	response.JSON(w, http.StatusOK, ToggleSubscriptionResponse{State: state}, message)
}

func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	users, err := h.subscriptionService.Subscribers(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, users, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.subscriptionService.SubscribedChannels(r.Context(), chi.URLParam(r, "subscriberId"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
