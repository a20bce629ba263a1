package handlers

import (
	"net/http"

	"github.com/dom/videotube/internal/api/middleware"
	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/service"
	"github.com/dom/videotube/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// FeedHandler upgrades signed-in users to the live activity feed of the
// channels they subscribe to.
type FeedHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	upgrader    ws.Upgrader
}

func NewFeedHandler(hub *websocket.Hub, authService *service.AuthService, cfg *config.Config) *FeedHandler {
	return &FeedHandler{
		hub:         hub,
		authService: authService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.CORSOrigins),
		},
	}
}

// Handle authenticates before upgrading. Browsers cannot set headers on a
// websocket handshake, so the token query parameter is accepted as well.
func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		response.Error(w, r, domain.ErrMissingToken)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), token)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("feed upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, user.ID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// originChecker allows requests without an Origin header (non-browser
// clients) and browser requests from a configured CORS origin.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
