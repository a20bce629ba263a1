package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context(), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.dashboardService.Videos(r.Context(), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, videos, "Channel videos fetched successfully")
}
