package handlers

import (
	"net/http"
	"strings"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/service"
	"github.com/go-chi/chi/v5"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type ToggleReactionResponse struct {
	Reaction        domain.Reaction      `json:"reaction"`
	Outcome         domain.ToggleOutcome `json:"outcome"`
	OppositeCleared bool                 `json:"oppositeCleared"`
}

// Toggle returns a handler applying reaction to the subject named by the
// {id} URL parameter.
func (h *LikeHandler) Toggle(subjectType domain.SubjectType, reaction domain.Reaction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.likeService.Toggle(r.Context(), subjectType, chi.URLParam(r, "id"), actorID(r), reaction)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.JSON(w, http.StatusOK, ToggleReactionResponse{
			Reaction:        t.To,
			Outcome:         t.Outcome,
			OppositeCleared: t.OppositeCleared,
		}, toggleMessage(subjectType, reaction, t.Outcome))
	}
}

func toggleMessage(subjectType domain.SubjectType, reaction domain.Reaction, outcome domain.ToggleOutcome) string {
	if outcome == domain.OutcomeRemoved {
		return strings.ToUpper(string(reaction[:1])) + string(reaction[1:]) + " removed"
	}
	subject := strings.ToUpper(string(subjectType[:1])) + string(subjectType[1:])
	return subject + " " + string(reaction) + "d"
}

func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.likeService.LikedVideos(r.Context(), actorID(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, videos, "Liked videos fetched successfully")
}
